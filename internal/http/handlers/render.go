package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
)

// NewViews loads the page templates with the helpers they use.
func NewViews(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.Reload(reload)
	engine.AddFunc("money", Money)
	engine.AddFunc("pct", func(v, peak int64) int64 {
		if peak <= 0 {
			return 0
		}
		return v * 100 / peak
	})
	return engine
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if rid, ok := c.Locals("requestid").(string); ok {
		data["RequestID"] = rid
	}
	return c.Render(tmpl, data)
}

// Money formats whole currency units with dot grouping: 10500000 -> "Rp 10.500.000".
func Money(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-Rp " + string(out)
	}
	return "Rp " + string(out)
}
