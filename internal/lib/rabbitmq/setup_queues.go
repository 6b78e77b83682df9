package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации в обменнике уведомлений.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые обслуживает сервис уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.reminders", RoutingKey: "reminders"},
		{QueueName: "notifications.events", RoutingKey: "events"},
	}
}
