package models

// EmailNotificationRequest is the payload handed to the email sender for
// transactional mail such as order confirmations.
type EmailNotificationRequest struct {
	Recipient   string `json:"recipient" validate:"required,email"`
	Subject     string `json:"subject" validate:"required"`
	Content     string `json:"content" validate:"required"`
	HTMLContent string `json:"html_content,omitempty"`
}
