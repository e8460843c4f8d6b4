package model

type EmailNotification struct {
	To       string
	Subject  string
	Template string         // имя шаблона (например, "cart_recovery")
	Data     map[string]any // данные для шаблона
}
