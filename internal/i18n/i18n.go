package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleES = "es-MX"
	LocaleEN = "en-US"

	DefaultLocale = LocaleES
)

// LocaleContextKey 中间件可预先写入的语言键
const LocaleContextKey = "locale"

var supportedTags = []language.Tag{
	language.MustParse(LocaleES),
	language.MustParse(LocaleEN),
}

var matcher = language.NewMatcher(supportedTags)

var catalogs = map[string]map[string]string{
	LocaleES: messagesES,
	LocaleEN: messagesEN,
}

// ResolveLocale 解析请求语言：?lang= 优先，其次 Accept-Language，默认 es-MX
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if value, ok := c.Get(LocaleContextKey); ok {
		if locale, ok := value.(string); ok && locale != "" {
			return locale
		}
	}
	if c.Request == nil {
		return DefaultLocale
	}
	if raw := strings.TrimSpace(c.Query("lang")); raw != "" {
		return MatchLocale(raw)
	}
	return MatchLocale(c.GetHeader("Accept-Language"))
}

// MatchLocale 将任意语言标签匹配到受支持的语言
func MatchLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedTags[index].String()
}

// T 翻译文案，缺失时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if catalog, ok := catalogs[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
