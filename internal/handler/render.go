package handler

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"sns-system/internal/model"
	"sns-system/pkg/flash"
	"sns-system/pkg/jwt"
	"sns-system/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "templates/layout.html"

// Pages 每个页面与 layout 组合成独立模板，避免 block 名冲突
type Pages map[string]*template.Template

// LoadPages 解析全部内嵌页面
func LoadPages() (Pages, error) {
	funcs := template.FuncMap{
		"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"fieldErrors": func(fields any, name string) []string {
			if m, ok := fields.(map[string][]string); ok {
				return m[name]
			}
			return nil
		},
	}

	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := Pages{}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		tmpl, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templatesFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[path.Base(file)] = tmpl
	}
	return pages, nil
}

// Instance 实现 gin 的 render.HTMLRender
func (p Pages) Instance(name string, data any) render.Render {
	return render.HTML{Template: p[name], Name: path.Base(layoutFile), Data: data}
}

// view 页面渲染与闪现消息
type view struct {
	flashes *flash.Store
}

// render 渲染页面，extra 为本次请求直接展示的提示
func (v *view) render(c *gin.Context, status int, name string, data gin.H, extra ...flash.Message) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUserID"] = jwt.GetUserID(c)
	data["CurrentUsername"] = jwt.GetUsername(c)
	data["Messages"] = append(v.flashes.Pop(c), extra...)
	c.HTML(status, name, data)
}

// redirect 带闪现消息重定向
func (v *view) redirect(c *gin.Context, location, level, text string) {
	if text != "" {
		v.flashes.Add(c, level, text)
	}
	c.Redirect(http.StatusFound, location)
}

// renderError 渲染 404/403/500 页面，内部错误不展示细节
func (v *view) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Server Error (500)"
	switch model.ErrorCode(err) {
	case model.CodeNotFound:
		status, message = http.StatusNotFound, errorMessage(err, "Not Found")
	case model.CodeForbidden:
		status, message = http.StatusForbidden, errorMessage(err, "403 Forbidden")
	case model.CodeUnauthenticated:
		c.Redirect(http.StatusFound, jwt.LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
		return
	default:
		logger.Error("请求处理失败", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	v.render(c, status, "error.html", gin.H{"Status": status, "Message": message})
	c.Abort()
}

func errorMessage(err error, fallback string) string {
	var appErr *model.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// parsePK 解析路径中的数字主键，非法值视为不存在
func parsePK(c *gin.Context, name, resource string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, model.NewNotFoundError(resource, raw)
	}
	return uint(id), nil
}

// safeNext 只允许站内相对路径
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
