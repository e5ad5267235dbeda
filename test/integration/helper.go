//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 测试直接请求运行中的服务(go test -tags integration ./test/integration)
// 服务地址通过BOOKCATALOG_BASE_URL指定,默认http://localhost:8080

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// BaseURL 图书API基础地址
func BaseURL() string {
	base := os.Getenv("BOOKCATALOG_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return strings.TrimRight(base, "/") + "/api/books"
}

// Result 原始响应(图书接口可能返回JSON或纯文本)
type Result struct {
	Status int
	Body   []byte
}

// Text 响应体文本
func (r *Result) Text() string {
	return string(r.Body)
}

// Decode 把响应体解析为JSON
func (r *Result) Decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), "解析JSON响应失败: %s", r.Text())
}

// BookSummary 列表项
type BookSummary struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	CommentCount int    `json:"commentcount"`
}

// BookDetail 图书详情
type BookDetail struct {
	ID           string   `json:"_id"`
	Title        string   `json:"title"`
	Comments     []string `json:"comments"`
	CommentCount int      `json:"commentcount"`
}

func do(t *testing.T, req *http.Request) *Result {
	t.Helper()

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	return &Result{Status: resp.StatusCode, Body: body}
}

// PostJSON 发送JSON请求体
func PostJSON(t *testing.T, url string, data interface{}) *Result {
	t.Helper()
	body, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	return do(t, req)
}

// PostForm 发送表单请求体
func PostForm(t *testing.T, target string, form url.Values) *Result {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, req)
}

// Get 发送GET请求
func Get(t *testing.T, url string) *Result {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err, "创建HTTP请求失败")
	return do(t, req)
}

// Delete 发送DELETE请求
func Delete(t *testing.T, url string) *Result {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err, "创建HTTP请求失败")
	return do(t, req)
}

// CreateTestBook 创建测试图书并返回ID
func CreateTestBook(t *testing.T, title string) string {
	t.Helper()
	res := PostJSON(t, BaseURL(), map[string]string{"title": title})
	require.Equal(t, http.StatusOK, res.Status, "创建图书失败: %s", res.Text())

	var created BookDetail
	res.Decode(t, &created)
	require.Len(t, created.ID, 32, "图书ID应为32位十六进制")
	return created.ID
}
