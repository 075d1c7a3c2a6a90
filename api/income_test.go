package api

import (
	"context"
	"fmt"
	"testing"

	"budget/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incomeRouter(env *testEnv) *gin.Engine {
	h := NewIncomeHandler(env.svc.Incomes)
	r := env.router()
	r.GET("/incomes", h.List)
	r.GET("/incomes/:id", h.Get)
	r.POST("/incomes", h.Create)
	r.PUT("/incomes/:id", h.Update)
	r.DELETE("/incomes/:id", h.Delete)
	return r
}

func TestIncomeHandler_CreateRecurring(t *testing.T) {
	env := newTestEnv(t)
	r := incomeRouter(env)

	w := doRequest(r, "POST", "/incomes", `{"source":"工资","amount":"5000","receipt_day":5}`)
	require.Equal(t, 200, w.Code, w.Body.String())

	var in models.Income
	env2 := decodeData(t, w, &in)
	assert.Equal(t, "创建成功", env2.Message)
	assert.True(t, in.IsRecurring)
	require.NotNil(t, in.ReceiptDay)
	assert.Equal(t, 5, *in.ReceiptDay)
	assert.Nil(t, in.Date)
}

func TestIncomeHandler_CreateOneOff(t *testing.T) {
	env := newTestEnv(t)
	r := incomeRouter(env)

	w := doRequest(r, "POST", "/incomes", `{"source":"额外","amount":300,"date":"2024-03-20"}`)
	require.Equal(t, 200, w.Code, w.Body.String())

	var in models.Income
	decodeData(t, w, &in)
	assert.False(t, in.IsRecurring)
	require.NotNil(t, in.Date)
	assert.Equal(t, 20, in.Date.Day())

	txs, err := env.svc.Transactions.List(context.Background(), env.user.ID, 3, 2024)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionTypeIncome, txs[0].Type)
}

func TestIncomeHandler_Create_Invalid(t *testing.T) {
	env := newTestEnv(t)
	r := incomeRouter(env)

	cases := map[string]string{
		"缺少来源":     `{"amount":"100","receipt_day":1}`,
		"固定收入缺到账日": `{"source":"工资","amount":"100","is_recurring":true}`,
		"日期格式错误":   `{"source":"额外","amount":"100","date":"20/03/2024"}`,
		"金额精度过高":   `{"source":"工资","amount":"1.234","receipt_day":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 400, doRequest(r, "POST", "/incomes", body).Code)
		})
	}
}

func TestIncomeHandler_UpdateToggleKind(t *testing.T) {
	env := newTestEnv(t)
	r := incomeRouter(env)

	w := doRequest(r, "POST", "/incomes", `{"source":"工资","amount":"5000","receipt_day":5}`)
	require.Equal(t, 200, w.Code)
	var in models.Income
	decodeData(t, w, &in)
	path := fmt.Sprintf("/incomes/%d", in.ID)

	w = doRequest(r, "PUT", path, `{"is_recurring":false,"date":"2024-04-01"}`)
	require.Equal(t, 200, w.Code, w.Body.String())
	var updated models.Income
	decodeData(t, w, &updated)
	assert.False(t, updated.IsRecurring)
	assert.Nil(t, updated.ReceiptDay)
	require.NotNil(t, updated.Date)

	w = doRequest(r, "PUT", path, `{"is_recurring":true}`)
	assert.Equal(t, 400, w.Code)
}

func TestIncomeHandler_ListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	r := incomeRouter(env)

	w := doRequest(r, "POST", "/incomes", `{"source":"工资","amount":"5000","receipt_day":5}`)
	require.Equal(t, 200, w.Code)
	var in models.Income
	decodeData(t, w, &in)

	w = doRequest(r, "GET", "/incomes", "")
	require.Equal(t, 200, w.Code)
	var list []models.Income
	decodeData(t, w, &list)
	assert.Len(t, list, 1)

	path := fmt.Sprintf("/incomes/%d", in.ID)
	assert.Equal(t, 200, doRequest(r, "DELETE", path, "").Code)
	assert.Equal(t, 404, doRequest(r, "GET", path, "").Code)
}
