package mailer

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/models"
)

const resetTextTemplate = `Здравствуйте, {{.Username}}!

Чтобы сбросить пароль, перейдите по ссылке:

{{.ResetURL}}

Если вы не запрашивали сброс пароля, просто проигнорируйте это письмо.
`

const resetHTMLTemplate = `<p>Здравствуйте, {{.Username}}!</p>
<p>Чтобы сбросить пароль, перейдите по <a href="{{.ResetURL}}">ссылке</a>.</p>
<p>Если вы не запрашивали сброс пароля, просто проигнорируйте это письмо.</p>
`

var (
	resetText = template.Must(template.New("reset_text").Parse(resetTextTemplate))
	resetHTML = template.Must(template.New("reset_html").Parse(resetHTMLTemplate))
)

// Mailer отправляет письма в фоне: доставка не блокирует HTTP-ответ,
// ошибки логируются и не возвращаются вызывающему (fire-and-forget)
type Mailer struct {
	cfg     config.Mail
	baseURL string
	log     *zap.Logger
}

func NewMailer(cfg *config.Config, log *zap.Logger) *Mailer {
	return &Mailer{
		cfg:     cfg.Mail,
		baseURL: cfg.BaseURL,
		log:     log,
	}
}

func (m *Mailer) send(to []string, subject, textBody, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Sender); err != nil {
		return fmt.Errorf("неверный адрес отправителя: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("неверный адрес получателя: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	if htmlBody != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.NoTLS),
	}
	if m.cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if m.cfg.Username != "" || m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Server, opts...)
	if err != nil {
		return fmt.Errorf("ошибка создания SMTP-клиента: %w", err)
	}

	return client.DialAndSend(msg)
}

// sendAsync выполняет доставку в отдельной горутине без ретраев и таймаутов
func (m *Mailer) sendAsync(to []string, subject, textBody, htmlBody string) {
	if m.cfg.Server == "" {
		m.log.Debug("MAIL_SERVER не задан, письмо не отправлено", zap.String("subject", subject))
		return
	}

	go func() {
		if err := m.send(to, subject, textBody, htmlBody); err != nil {
			m.log.Error("ошибка отправки письма",
				zap.String("subject", subject),
				zap.Error(err))
		}
	}()
}

// SendPasswordReset отправляет письмо со ссылкой сброса пароля
func (m *Mailer) SendPasswordReset(user *models.User, token string) {
	data := struct {
		Username string
		ResetURL string
	}{
		Username: user.Username,
		ResetURL: fmt.Sprintf("%s/reset_password/%s", m.baseURL, token),
	}

	var textBuf, htmlBuf bytes.Buffer
	if err := resetText.Execute(&textBuf, data); err != nil {
		m.log.Error("ошибка рендеринга письма", zap.Error(err))
		return
	}
	if err := resetHTML.Execute(&htmlBuf, data); err != nil {
		m.log.Error("ошибка рендеринга письма", zap.Error(err))
		return
	}

	m.sendAsync([]string{user.Email}, "[Microblog] Сброс пароля", textBuf.String(), htmlBuf.String())
}

// SendErrorAlert шлет администраторам уведомление о 500-й ошибке
func (m *Mailer) SendErrorAlert(requestID string, err error) {
	if len(m.cfg.Admins) == 0 {
		return
	}

	body := fmt.Sprintf("Запрос %s завершился ошибкой:\n\n%v\n", requestID, err)
	m.sendAsync(m.cfg.Admins, "[Microblog] Ошибка приложения", body, "")
}
