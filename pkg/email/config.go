package email

// Config holds email configuration. The Postmark token is optional so that
// development setups can use DevSender instead.
type Config struct {
	PostmarkServerToken string `env:"POSTMARK_SERVER_TOKEN"`
	SenderEmail         string `env:"SENDER_EMAIL" envDefault:"noreply@linkauth.dev"`
	SupportEmail        string `env:"SUPPORT_EMAIL"`
	ProductName         string `env:"PRODUCT_NAME" envDefault:"linkauth"`

	// MagicLinkBaseURL is the page that receives the token as ?token=...
	MagicLinkBaseURL string `env:"MAGIC_LINK_BASE_URL" envDefault:"http://localhost:8080/auth/verify"`

	// DevDir, when set, makes the application write messages there instead of sending them.
	DevDir string `env:"EMAIL_DEV_DIR"`
}
