package i18n

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/Laisky/errors/v2"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/common/ctxkey"
)

//go:embed locales/*.json
var localesFS embed.FS

var (
	translations = make(map[string]map[string]string)
	defaultLang  = "en"

	loadOnce sync.Once
	loadErr  error
)

// Init loads all translation files from the embedded filesystem. It is safe to call repeatedly.
func Init() error {
	loadOnce.Do(func() {
		loadErr = load()
	})
	return loadErr
}

func load() error {
	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return errors.Wrap(err, "failed to read locales directory")
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		langCode := strings.TrimSuffix(entry.Name(), ".json")
		content, err := localesFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return errors.Wrapf(err, "failed to read locale file: %s", entry.Name())
		}

		var translation map[string]string
		if err := sonic.Unmarshal(content, &translation); err != nil {
			return errors.Wrapf(err, "failed to unmarshal locale file: %s", entry.Name())
		}
		translations[langCode] = translation
	}

	return nil
}

// Supported reports whether a locale bundle exists for lang.
func Supported(lang string) bool {
	_ = Init()
	_, ok := translations[Normalize(lang)]
	return ok
}

// Normalize maps tags such as "zh-CN" or "en_US" to bundle names.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if lang == "" {
		return defaultLang
	}
	return lang
}

// Translator renders messages in one language.
type Translator struct {
	lang string
}

// NewTranslator returns a Translator for lang, falling back to English for unknown languages.
func NewTranslator(lang string) Translator {
	if !Supported(lang) {
		return Translator{lang: defaultLang}
	}
	return Translator{lang: Normalize(lang)}
}

func (t Translator) Lang() string {
	if t.lang == "" {
		return defaultLang
	}
	return t.lang
}

// T translates message and substitutes {{name}} placeholders from
// alternating name/value pairs in vars.
func (t Translator) T(message string, vars ...any) string {
	out := translateHelper(t.Lang(), message)
	for i := 0; i+1 < len(vars); i += 2 {
		name := fmt.Sprint(vars[i])
		out = strings.ReplaceAll(out, "{{"+name+"}}", fmt.Sprint(vars[i+1]))
	}
	return out
}

func GetLang(c *gin.Context) string {
	rawLang, ok := c.Get(ctxkey.Language)
	if !ok {
		return defaultLang
	}
	lang, _ := rawLang.(string)
	if lang != "" {
		return lang
	}
	return defaultLang
}

// FromContext returns the Translator negotiated for the request.
func FromContext(c *gin.Context) Translator {
	return NewTranslator(GetLang(c))
}

func translateHelper(lang, message string) string {
	_ = Init()
	if trans, ok := translations[lang]; ok {
		if translated, exists := trans[message]; exists {
			return translated
		}
	}
	return message
}
