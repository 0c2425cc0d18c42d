package gql

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

//go:embed graphiql.html
var graphiqlHTML string

var graphiqlTmpl = template.Must(template.New("graphiql").Parse(graphiqlHTML))

// Handler は GraphQL エンドポイントの HTTP ハンドラーです。
type Handler struct {
	relay    *relay.Handler
	endpoint string
}

// NewHandler は schema を endpoint で提供する Handler を作成します。
func NewHandler(schema *graphql.Schema, endpoint string) *Handler {
	return &Handler{relay: &relay.Handler{Schema: schema}, endpoint: endpoint}
}

// Query は POST された GraphQL リクエストを実行します。
// リゾルバーのエラーは HTTP 200 の errors 配列として返ります。
func (h *Handler) Query(c *gin.Context) {
	h.relay.ServeHTTP(c.Writer, c.Request)
}

// Playground は GraphiQL のページを返します。
func (h *Handler) Playground(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := graphiqlTmpl.Execute(c.Writer, struct{ Endpoint string }{h.endpoint}); err != nil {
		_ = c.Error(err)
	}
}
