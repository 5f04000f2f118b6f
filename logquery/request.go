package logquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/songquanpeng/finlogs/model"
)

// Directive says which slice of the result set to fetch.
// Offset mode reads Page and PageSize, cursor mode reads Cursor and PageSize.
type Directive struct {
	Page        int
	PageSize    int
	Cursor      string
	Lightweight bool
}

// BuildQueryString renders the log endpoint parameters in their fixed order:
// key, paging, type, model_name, group, start_timestamp, end_timestamp.
// url.Values is avoided because it sorts keys.
func BuildQueryString(q model.QueryCriteria, d Directive) string {
	var b strings.Builder
	add := func(name, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(value)
	}

	add("key", url.QueryEscape(strings.TrimSpace(q.TokenKey)))

	pageSize := d.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	if q.PaginationMode == model.PaginationCursor {
		add("use_cursor", "true")
		add("page_size", strconv.Itoa(pageSize))
		if d.Cursor != "" {
			add("cursor", url.QueryEscape(d.Cursor))
		}
	} else {
		page := d.Page
		if page < 1 {
			page = 1
		}
		add("page", strconv.Itoa(page))
		add("page_size", strconv.Itoa(pageSize))
	}

	if q.Type > 0 {
		add("type", strconv.Itoa(q.Type))
	}
	if q.ModelName != "" {
		add("model_name", url.QueryEscape(q.ModelName))
	}
	if q.Group != "" {
		add("group", url.QueryEscape(q.Group))
	}
	add("start_timestamp", strconv.FormatInt(q.StartTimestamp, 10))
	add("end_timestamp", strconv.FormatInt(q.EndTimestamp, 10))

	if d.Lightweight {
		add("lightweight", "true")
	}
	return b.String()
}

// BuildRequestPath appends the query string of q and d to the log endpoint path.
func BuildRequestPath(path string, q model.QueryCriteria, d Directive) string {
	return path + "?" + BuildQueryString(q, d)
}
