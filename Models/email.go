package Models

// EmailConfig is the SMTP account outgoing mail is sent from
type EmailConfig struct {
	SMTPServer   string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	TLSEnabled   bool
	SkipTLSCheck bool
}

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string
	IsHTML  bool
}
