package api

import (
	"fmt"
	"testing"

	"budget/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalHandler_Flow(t *testing.T) {
	env := newTestEnv(t)
	h := NewGoalHandler(env.svc.Goals)
	r := env.router()
	r.GET("/goals", h.List)
	r.POST("/goals", h.Create)
	r.PUT("/goals/:id", h.Update)
	r.POST("/goals/:id/contribute", h.Contribute)
	r.DELETE("/goals/:id", h.Delete)

	w := doRequest(r, "POST", "/goals", `{"name":"应急基金","type":"savings","target_amount":"1000","current_amount":"250","period":"monthly"}`)
	require.Equal(t, 200, w.Code, w.Body.String())
	var goal service.GoalProgress
	decodeData(t, w, &goal)
	assert.True(t, goal.IsActive)
	assert.Equal(t, 25.0, goal.Progress)
	path := fmt.Sprintf("/goals/%d", goal.ID)

	w = doRequest(r, "POST", path+"/contribute", `{"amount":"125.50"}`)
	require.Equal(t, 200, w.Code, w.Body.String())
	decodeData(t, w, &goal)
	assert.True(t, goal.CurrentAmount.Equal(decimal.RequireFromString("375.5")))
	assert.Equal(t, 37.6, goal.Progress)

	assert.Equal(t, 400, doRequest(r, "POST", path+"/contribute", `{"amount":"0"}`).Code)
	assert.Equal(t, 400, doRequest(r, "PUT", path, `{"type":"lottery"}`).Code)

	w = doRequest(r, "PUT", path, `{"is_active":false}`)
	require.Equal(t, 200, w.Code)
	decodeData(t, w, &goal)
	assert.False(t, goal.IsActive)

	w = doRequest(r, "GET", "/goals", "")
	require.Equal(t, 200, w.Code)
	var list []service.GoalProgress
	decodeData(t, w, &list)
	assert.Len(t, list, 1)

	assert.Equal(t, 200, doRequest(r, "DELETE", path, "").Code)
	assert.Equal(t, 404, doRequest(r, "DELETE", path, "").Code)
}

func TestGoalHandler_Create_Invalid(t *testing.T) {
	env := newTestEnv(t)
	r := env.router()
	r.POST("/goals", NewGoalHandler(env.svc.Goals).Create)

	cases := map[string]string{
		"类型错误":   `{"name":"x","type":"lottery","target_amount":"10","period":"monthly"}`,
		"周期错误":   `{"name":"x","type":"savings","target_amount":"10","period":"weekly"}`,
		"目标日期格式": `{"name":"x","type":"savings","target_amount":"10","period":"custom","target_date":"tomorrow"}`,
		"类别不存在":  `{"name":"x","type":"expense_limit","target_amount":"10","period":"monthly","category_id":77}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 400, doRequest(r, "POST", "/goals", body).Code)
		})
	}
}
