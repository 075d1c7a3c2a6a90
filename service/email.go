package service

import (
	"fmt"
	"html"
	"log"
	"time"

	"budget/config"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// ReminderSender 账单提醒发送方
type ReminderSender interface {
	SendReminder(to, billName string, amount decimal.Decimal, dueDate time.Time) bool
}

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// Configured 已启用且填写了 SMTP 主机和发件账号
func (s *EmailService) Configured() bool {
	return s.cfg != nil && s.cfg.Enabled && s.cfg.Host != "" && s.cfg.Username != ""
}

// SendReminder 发送账单到期提醒，未配置时只记录日志并返回 false
func (s *EmailService) SendReminder(to, billName string, amount decimal.Decimal, dueDate time.Time) bool {
	if !s.Configured() {
		log.Printf("邮件服务未配置，跳过提醒: to=%s bill=%s due=%s", to, billName, dueDate.Format("2006-01-02"))
		return false
	}
	if to == "" {
		log.Printf("用户未设置邮箱，跳过提醒: bill=%s", billName)
		return false
	}

	subject := fmt.Sprintf("【记账系统】账单提醒：%s", billName)
	body := s.generateReminderEmailBody(billName, amount, dueDate)
	if err := s.sendEmail(to, subject, body); err != nil {
		log.Printf("账单提醒发送失败 to=%s bill=%s: %v", to, billName, err)
		return false
	}
	return true
}

// generateReminderEmailBody 生成提醒邮件内容
func (s *EmailService) generateReminderEmailBody(billName string, amount decimal.Decimal, dueDate time.Time) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #f59e0b, #d97706); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .bill-box { background: #fffbeb; border: 2px dashed #f59e0b; border-radius: 12px; padding: 24px; text-align: center; margin: 30px 0; }
        .bill-name { font-size: 20px; font-weight: 600; color: #92400e; }
        .amount { font-size: 32px; font-weight: bold; color: #d97706; margin-top: 8px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 记账系统</h1>
        </div>
        <div class="content">
            <p>您好！</p>
            <p>以下账单将于 <strong>%s</strong> 到期，请及时付款：</p>
            <div class="bill-box">
                <div class="bill-name">%s</div>
                <div class="amount">¥ %s</div>
            </div>
            <p>付款后请在系统中将账单标记为已付。</p>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© 记账系统 - 您的个人财务管理助手</p>
        </div>
    </div>
</body>
</html>
`, dueDate.Format("2006年01月02日"), html.EscapeString(billName), amount.StringFixed(2))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
