package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for the email
// worker. Kind selects the template; Data feeds it.
type EmailJob struct {
	To   string         `json:"to"`
	Kind string         `json:"kind"` // verify_email, welcome, password_reset
	Data map[string]any `json:"data,omitempty"`
}
