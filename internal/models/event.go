package models

// SubscriptionEvent — сообщение о создании или обновлении абонемента,
// публикуемое в обменник уведомлений.
type SubscriptionEvent struct {
	Type           string `json:"type"`
	SubscriptionID int    `json:"subscription_id"`
	StudentID      int    `json:"student_id"`
	TeacherID      int    `json:"teacher_id"`
}
