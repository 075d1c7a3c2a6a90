package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"budget/config"
	"budget/models"
)

// FinancialSnapshot 发送给 AI 的财务概况
type FinancialSnapshot struct {
	MonthlyIncome     models.Money    `json:"monthly_income"`
	MonthlyExpenses   models.Money    `json:"monthly_expenses"`
	MonthlyBalance    models.Money    `json:"monthly_balance"`
	UpcomingBills     int             `json:"upcoming_bills"`
	UnpaidBills       int             `json:"unpaid_bills"`
	OverdueBills      int             `json:"overdue_bills"`
	CategoryBreakdown []CategoryShare `json:"category_breakdown"`
}

// Suggestion 一条理财建议，Priority 越小越靠前
type Suggestion struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Priority int    `json:"priority"`
}

// Advice 建议结果，Source 为 ai 或 fallback
type Advice struct {
	Suggestions []Suggestion `json:"suggestions"`
	Summary     string       `json:"summary"`
	Source      string       `json:"source"`
}

const (
	AdviceSourceAI       = "ai"
	AdviceSourceFallback = "fallback"
)

// Advisor 兼容 OpenAI /chat/completions 接口的理财建议客户端
type Advisor struct {
	cfg    config.AdvisorConfig
	client *http.Client
}

// NewAdvisor 创建客户端
func NewAdvisor(cfg config.AdvisorConfig) *Advisor {
	return &Advisor{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout()}}
}

// Enabled 已启用且配置了地址和模型
func (a *Advisor) Enabled() bool {
	return a != nil && a.cfg.Enabled && a.cfg.BaseURL != "" && a.cfg.Model != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GetAdvice 请求 AI 返回排序后的建议和概况总结，任何失败都返回 ErrUnavailable
func (a *Advisor) GetAdvice(ctx context.Context, snap FinancialSnapshot) (*Advice, error) {
	if !a.Enabled() {
		return nil, fmt.Errorf("%w: AI 建议未启用", ErrUnavailable)
	}

	content, err := a.complete(ctx, buildAdvicePrompt(snap))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var advice Advice
	if err := json.Unmarshal([]byte(extractJSON(content)), &advice); err != nil {
		return nil, fmt.Errorf("%w: 解析 AI 返回失败: %v", ErrUnavailable, err)
	}
	if len(advice.Suggestions) == 0 {
		return nil, fmt.Errorf("%w: AI 未返回建议", ErrUnavailable)
	}
	sort.SliceStable(advice.Suggestions, func(i, j int) bool {
		return advice.Suggestions[i].Priority < advice.Suggestions[j].Priority
	})
	advice.Source = AdviceSourceAI
	return &advice, nil
}

func (a *Advisor) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    a.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("构建请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(a.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求AI服务失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("AI服务返回错误: %d, %s", resp.StatusCode, string(data))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("AI服务未返回内容")
	}
	return out.Choices[0].Message.Content, nil
}

// buildAdvicePrompt 构建建议提示词，要求返回 JSON
func buildAdvicePrompt(snap FinancialSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, `请根据以下月度财务数据给出理财建议：

月固定收入：%s 元
月账单支出：%s 元
月结余：%s 元
7 天内到期账单：%d 笔
未付账单：%d 笔，其中逾期 %d 笔

支出类别占比：
`, snap.MonthlyIncome.StringFixed(2), snap.MonthlyExpenses.StringFixed(2), snap.MonthlyBalance.StringFixed(2),
		snap.UpcomingBills, snap.UnpaidBills, snap.OverdueBills)
	for _, c := range snap.CategoryBreakdown {
		fmt.Fprintf(&b, "- %s: %s 元 (%.1f%%)\n", c.Name, c.Total.StringFixed(2), c.Percentage)
	}
	b.WriteString(`
请只返回如下 JSON，不要包含其它内容：
{"suggestions":[{"title":"标题","detail":"具体建议","priority":1}],"summary":"一段话的消费模式总结"}
priority 从 1 开始，数字越小越重要。请用中文回答。`)
	return b.String()
}

// extractJSON 去掉模型可能包裹的 markdown 代码块
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}
	return s
}

// FallbackAdvice AI 不可用时按规则生成的建议
func FallbackAdvice(snap FinancialSnapshot) *Advice {
	var list []Suggestion
	if snap.OverdueBills > 0 {
		list = append(list, Suggestion{
			Title:  "优先处理逾期账单",
			Detail: fmt.Sprintf("当前有 %d 笔账单已逾期，请尽快付款以避免滞纳金。", snap.OverdueBills),
		})
	}
	if snap.MonthlyBalance.IsNegative() {
		list = append(list, Suggestion{
			Title:  "支出超过收入",
			Detail: fmt.Sprintf("本月账单比固定收入多 %s 元，建议削减非必要开支或增加收入来源。", snap.MonthlyBalance.Neg().StringFixed(2)),
		})
	}
	if len(snap.CategoryBreakdown) > 0 {
		top := snap.CategoryBreakdown[0]
		for _, c := range snap.CategoryBreakdown[1:] {
			if c.Percentage > top.Percentage {
				top = c
			}
		}
		if top.Percentage >= 50 {
			list = append(list, Suggestion{
				Title:  "支出过于集中",
				Detail: fmt.Sprintf("「%s」占全部账单的 %.1f%%，可以检查是否有更便宜的替代方案。", top.Name, top.Percentage),
			})
		}
	}
	if snap.UpcomingBills > 0 {
		list = append(list, Suggestion{
			Title:  "提前准备资金",
			Detail: fmt.Sprintf("未来 7 天内有 %d 笔账单到期，请确认账户余额充足。", snap.UpcomingBills),
		})
	}
	list = append(list, Suggestion{
		Title:  "建立应急基金",
		Detail: "建议储备 3 到 6 个月的生活开支作为应急基金。",
	})
	for i := range list {
		list[i].Priority = i + 1
	}
	return &Advice{Suggestions: list, Summary: AnalyzePatterns(snap), Source: AdviceSourceFallback}
}

// AnalyzePatterns 本地生成的消费模式总结
func AnalyzePatterns(snap FinancialSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "本月固定收入 %s 元，账单支出 %s 元，结余 %s 元。",
		snap.MonthlyIncome.StringFixed(2), snap.MonthlyExpenses.StringFixed(2), snap.MonthlyBalance.StringFixed(2))
	if snap.MonthlyIncome.IsPositive() {
		ratio := snap.MonthlyExpenses.Div(snap.MonthlyIncome.Decimal).Mul(hundred).Round(1)
		fmt.Fprintf(&b, "账单占收入的 %s%%。", ratio.String())
	}
	if len(snap.CategoryBreakdown) > 0 {
		shares := append([]CategoryShare(nil), snap.CategoryBreakdown...)
		sort.SliceStable(shares, func(i, j int) bool { return shares[i].Percentage > shares[j].Percentage })
		fmt.Fprintf(&b, "支出最多的类别是「%s」（%.1f%%）。", shares[0].Name, shares[0].Percentage)
	}
	return b.String()
}

// AdviceService 组合仪表盘数据和 AI 建议
type AdviceService struct {
	dashboard *DashboardService
	advisor   *Advisor
}

// NewAdviceService advisor 可以为 nil，此时总是返回规则建议
func NewAdviceService(dashboard *DashboardService, advisor *Advisor) *AdviceService {
	return &AdviceService{dashboard: dashboard, advisor: advisor}
}

// GetAdvice AI 不可用时降级为规则建议，不向调用方返回错误
func (s *AdviceService) GetAdvice(ctx context.Context, userID uint, ref time.Time) (*Advice, error) {
	d, err := s.dashboard.GetDashboard(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	snap := snapshotFromDashboard(d)

	if s.advisor.Enabled() {
		advice, err := s.advisor.GetAdvice(ctx, snap)
		if err == nil {
			if advice.Summary == "" {
				advice.Summary = AnalyzePatterns(snap)
			}
			return advice, nil
		}
		log.Printf("AI 建议不可用，使用默认建议: %v", err)
	}
	return FallbackAdvice(snap), nil
}

func snapshotFromDashboard(d *Dashboard) FinancialSnapshot {
	snap := FinancialSnapshot{
		MonthlyIncome:     d.MonthlyIncome,
		MonthlyExpenses:   d.MonthlyExpenses,
		MonthlyBalance:    d.MonthlyBalance,
		UpcomingBills:     d.UpcomingBills,
		CategoryBreakdown: d.CategoryBreakdown,
	}
	for _, b := range d.Bills {
		if b.IsPaid {
			continue
		}
		snap.UnpaidBills++
		if b.Status == BillStatusOverdue {
			snap.OverdueBills++
		}
	}
	return snap
}
