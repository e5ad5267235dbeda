package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormstore"
	bookredis "github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/resilience"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// newTestServer 使用内存sqlite组装完整调用链: Handler → UseCase → Service → Repository
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	return newTestServerWithRepo(t, logger.Discard(), func(repo book.Repository) book.Repository { return repo })
}

// newCachedTestServer 与生产一致的仓储装饰链: gorm → 熔断 → Redis详情缓存(miniredis)
func newCachedTestServer(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	breaker := resilience.NewBreaker(config.BreakerConfig{
		Enabled:             true,
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Minute,
		ConsecutiveFailures: 5,
	}, logger.Discard())

	r, _ := newTestServerWithRepo(t, logger.Discard(), func(repo book.Repository) book.Repository {
		repo = resilience.NewBookRepository(repo, breaker)
		return bookredis.NewCachedBookRepository(repo, bookredis.NewBookCache(client, time.Minute), logger.Discard())
	})
	return r, mr
}

func newTestServerWithRepo(t *testing.T, log *logrus.Logger, wrap func(book.Repository) book.Repository) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gormstore.Open(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         fmt.Sprintf("file:handler_%s?mode=memory&cache=shared", name),
		MaxIdleConns: 1,
	}, "test", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, gormstore.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	svc := book.NewService(wrap(gormstore.NewBookRepository(db, gormstore.NewTxManager(db))))
	h := NewBookHandler(
		appbook.NewListBooksUseCase(svc),
		appbook.NewCreateBookUseCase(svc),
		appbook.NewGetBookUseCase(svc),
		appbook.NewAddCommentUseCase(svc),
		appbook.NewDeleteBookUseCase(svc),
		appbook.NewDeleteAllBooksUseCase(svc),
		log,
	)
	health := NewHealthHandler(gormstore.NewPinger(db), logger.Discard())

	r := gin.New()
	r.GET("/ping", health.Ping)
	books := r.Group("/api/books")
	{
		books.GET("", h.ListBooks)
		books.POST("", h.CreateBook)
		books.DELETE("", h.DeleteAllBooks)
		books.GET("/:id", h.GetBook)
		books.POST("/:id", h.AddComment)
		books.DELETE("/:id", h.DeleteBook)
	}
	return r, db
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(r http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBook(t *testing.T, r http.Handler, title string) dto.CreateBookResponse {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/books", fmt.Sprintf(`{"title":%q}`, title))
	require.Equal(t, http.StatusOK, w.Code)

	var created dto.CreateBookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created
}

func TestBookHandler_CreateBook(t *testing.T) {
	r, _ := newTestServer(t)

	t.Run("JSON创建", func(t *testing.T) {
		created := createBook(t, r, "Dune")
		assert.Equal(t, "Dune", created.Title)
		assert.True(t, book.IsValidID(created.ID))
	})

	t.Run("表单创建", func(t *testing.T) {
		w := doForm(r, http.MethodPost, "/api/books", url.Values{"title": {"Emma"}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Emma"`)
	})

	t.Run("书名去除首尾空白", func(t *testing.T) {
		created := createBook(t, r, "  Ulysses  ")
		assert.Equal(t, "Ulysses", created.Title)
	})

	tests := []struct {
		name string
		body string
	}{
		{"缺少title字段", `{}`},
		{"title为空串", `{"title":""}`},
		{"title只有空白", `{"title":"   "}`},
		{"请求体为空", ``},
		{"JSON格式错误", `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/books", tt.body)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "missing required field title", w.Body.String())
		})
	}

	t.Run("校验失败不落库", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/books", "")
		var list []dto.BookSummaryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 3)
	})
}

func TestBookHandler_ListBooks(t *testing.T) {
	r, _ := newTestServer(t)

	t.Run("空集合返回[]", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/books", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("列表不含评论内容", func(t *testing.T) {
		created := createBook(t, r, "A")
		doJSON(r, http.MethodPost, "/api/books/"+created.ID, `{"comment":"nice"}`)

		w := doJSON(r, http.MethodGet, "/api/books", "")
		assert.JSONEq(t, fmt.Sprintf(`[{"_id":%q,"title":"A","commentcount":1}]`, created.ID), w.Body.String())
	})
}

func TestBookHandler_GetBook(t *testing.T) {
	r, _ := newTestServer(t)
	created := createBook(t, r, "Dune")

	t.Run("新建图书没有评论", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/books/"+created.ID, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"_id":%q,"title":"Dune","comments":[],"commentcount":0}`, created.ID), w.Body.String())
	})

	t.Run("大写ID等价", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/books/"+strings.ToUpper(created.ID), "")
		assert.Contains(t, w.Body.String(), `"title":"Dune"`)
	})

	for name, id := range map[string]string{
		"格式错误的ID": "not-an-id",
		"长度不足":    "abc123",
		"合法但不存在":  book.NewID(),
	} {
		t.Run(name, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/api/books/"+id, "")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "no book exists", w.Body.String())
		})
	}
}

func TestBookHandler_AddComment(t *testing.T) {
	r, _ := newTestServer(t)
	created := createBook(t, r, "Dune")

	t.Run("追加评论返回完整图书", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/books/"+created.ID, `{"comment":"first"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = doForm(r, http.MethodPost, "/api/books/"+created.ID, url.Values{"comment": {" second "}})
		require.Equal(t, http.StatusOK, w.Code)

		var detail dto.BookDetailResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
		assert.Equal(t, []string{"first", "second"}, detail.Comments)
		assert.Equal(t, 2, detail.CommentCount)
	})

	t.Run("缺少评论", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/books/"+created.ID, `{"comment":"  "}`)
		assert.Equal(t, "missing required field comment", w.Body.String())

		w = doJSON(r, http.MethodGet, "/api/books/"+created.ID, "")
		assert.Contains(t, w.Body.String(), `"commentcount":2`, "校验失败不修改图书")
	})

	t.Run("评论校验优先于ID校验", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/books/not-an-id", `{}`)
		assert.Equal(t, "missing required field comment", w.Body.String())
	})

	t.Run("ID无效", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/books/not-an-id", `{"comment":"x"}`)
		assert.Equal(t, "no book exists", w.Body.String())

		w = doJSON(r, http.MethodPost, "/api/books/"+book.NewID(), `{"comment":"x"}`)
		assert.Equal(t, "no book exists", w.Body.String())
	})
}

func TestBookHandler_Delete(t *testing.T) {
	r, _ := newTestServer(t)

	t.Run("删除单本", func(t *testing.T) {
		created := createBook(t, r, "Dune")

		w := doJSON(r, http.MethodDelete, "/api/books/"+created.ID, "")
		assert.Equal(t, "delete successful", w.Body.String())

		w = doJSON(r, http.MethodDelete, "/api/books/"+created.ID, "")
		assert.Equal(t, "no book exists", w.Body.String(), "重复删除")

		w = doJSON(r, http.MethodDelete, "/api/books/zzz", "")
		assert.Equal(t, "no book exists", w.Body.String())
	})

	t.Run("清空", func(t *testing.T) {
		createBook(t, r, "A")
		createBook(t, r, "B")

		w := doJSON(r, http.MethodDelete, "/api/books", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "complete delete successful", w.Body.String())

		w = doJSON(r, http.MethodGet, "/api/books", "")
		assert.JSONEq(t, `[]`, w.Body.String())

		w = doJSON(r, http.MethodDelete, "/api/books", "")
		assert.Equal(t, "complete delete successful", w.Body.String(), "空集合同样成功")
	})
}

func TestBookHandler_StoreUnavailable(t *testing.T) {
	r, db := newTestServer(t)
	id := createBook(t, r, "Dune").ID

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/books", ""},
		{http.MethodPost, "/api/books", `{"title":"X"}`},
		{http.MethodDelete, "/api/books", ""},
		{http.MethodGet, "/api/books/" + id, ""},
		{http.MethodPost, "/api/books/" + id, `{"comment":"x"}`},
		{http.MethodDelete, "/api/books/" + id, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := doJSON(r, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "internal server error", w.Body.String())
		})
	}

	t.Run("校验失败仍然返回200", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/books", `{}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "missing required field title", w.Body.String())
	})

	t.Run("健康检查返回503", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/ping", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"database unavailable"`)
	})
}

func TestHealthHandler_Ping(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"message":"pong","status":"healthy"}}`, w.Body.String())
}

func TestBookHandler_Scenario(t *testing.T) {
	r, _ := newTestServer(t)
	runScenario(t, r)
}

func TestBookHandler_ScenarioWithCache(t *testing.T) {
	r, mr := newCachedTestServer(t)
	runScenario(t, r)

	t.Run("重复查询命中缓存", func(t *testing.T) {
		created := createBook(t, r, "Beta")
		doJSON(r, http.MethodGet, "/api/books/"+created.ID, "")
		assert.True(t, mr.Exists("book:detail:"+created.ID))

		w := doJSON(r, http.MethodGet, "/api/books/"+created.ID, "")
		assert.JSONEq(t, fmt.Sprintf(`{"_id":%q,"title":"Beta","comments":[],"commentcount":0}`, created.ID), w.Body.String())
	})

	t.Run("清空后缓存的图书不再返回", func(t *testing.T) {
		created := createBook(t, r, "Gamma")
		doJSON(r, http.MethodGet, "/api/books/"+created.ID, "")
		require.True(t, mr.Exists("book:detail:"+created.ID))

		w := doJSON(r, http.MethodDelete, "/api/books", "")
		assert.Equal(t, "complete delete successful", w.Body.String())

		w = doJSON(r, http.MethodGet, "/api/books/"+created.ID, "")
		assert.Equal(t, "no book exists", w.Body.String())
	})
}

func TestBookHandler_LogsOperations(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	r, _ := newTestServerWithRepo(t, log, func(repo book.Repository) book.Repository { return repo })

	created := createBook(t, r, "Dune")
	hook.Reset()

	t.Run("查询成功记录图书ID", func(t *testing.T) {
		doJSON(r, http.MethodGet, "/api/books/"+created.ID, "")

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.InfoLevel, entry.Level)
		assert.Equal(t, "图书查询成功", entry.Message)
		assert.Equal(t, created.ID, entry.Data["book_id"])
		assert.Equal(t, appbook.OpGet, entry.Data["op"])
	})

	t.Run("列表查询记录数量", func(t *testing.T) {
		doJSON(r, http.MethodGet, "/api/books", "")

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, "图书列表查询完成", entry.Message)
		assert.Equal(t, 1, entry.Data["count"])
	})
}

// runScenario 创建 → 查询 → 评论 → 删除 → 查询
func runScenario(t *testing.T, r http.Handler) {
	t.Helper()

	// 1. 创建
	created := createBook(t, r, "Alpha")

	// 2. 查询(缓存启用时此次回填缓存)
	w := doJSON(r, http.MethodGet, "/api/books/"+created.ID, "")
	assert.JSONEq(t, fmt.Sprintf(`{"_id":%q,"title":"Alpha","comments":[],"commentcount":0}`, created.ID), w.Body.String())

	// 3. 评论
	w = doJSON(r, http.MethodPost, "/api/books/"+created.ID, `{"comment":"nice"}`)
	assert.JSONEq(t, fmt.Sprintf(`{"_id":%q,"title":"Alpha","comments":["nice"],"commentcount":1}`, created.ID), w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/books/"+created.ID, "")
	assert.JSONEq(t, fmt.Sprintf(`{"_id":%q,"title":"Alpha","comments":["nice"],"commentcount":1}`, created.ID), w.Body.String())

	// 4. 删除
	w = doJSON(r, http.MethodDelete, "/api/books/"+created.ID, "")
	assert.Equal(t, "delete successful", w.Body.String())

	// 5. 再次查询
	w = doJSON(r, http.MethodGet, "/api/books/"+created.ID, "")
	assert.Equal(t, "no book exists", w.Body.String())
}
