package common

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gosqlmysql "github.com/go-sql-driver/mysql"
)

// NormalizeMySQLDSN accepts either a go-sql-driver DSN or a mysql:// URL and returns a driver DSN
// with parseTime enabled, UTC as the default location and utf8mb4 as the default charset.
func NormalizeMySQLDSN(dsn string) (string, error) {
	raw, err := mysqlURLToDSN(dsn)
	if err != nil {
		return "", errors.Wrap(err, "convert MySQL DSN")
	}

	cfg, err := gosqlmysql.ParseDSN(raw)
	if err != nil {
		return "", errors.Wrap(err, "parse MySQL DSN")
	}

	cfg.ParseTime = true
	opts := dsnOptions(raw)
	if _, ok := opts["loc"]; !ok {
		cfg.Loc = time.UTC
	}
	if _, ok := opts["charset"]; !ok {
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params["charset"] = "utf8mb4"
	}

	return cfg.FormatDSN(), nil
}

func mysqlURLToDSN(dsn string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(dsn), "mysql://") {
		return dsn, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "", errors.Wrap(err, "parse mysql:// DSN")
	}
	if u.Host == "" {
		return "", errors.New("mysql DSN missing host")
	}

	var b strings.Builder
	if u.User != nil {
		b.WriteString(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			b.WriteString(":" + pwd)
		}
		b.WriteString("@")
	}
	fmt.Fprintf(&b, "tcp(%s)/%s", u.Host, strings.TrimPrefix(u.Path, "/"))
	if u.RawQuery != "" {
		b.WriteString("?" + u.RawQuery)
	}

	return b.String(), nil
}

func dsnOptions(dsn string) url.Values {
	idx := strings.Index(dsn, "?")
	if idx == -1 {
		return url.Values{}
	}
	values, err := url.ParseQuery(dsn[idx+1:])
	if err != nil {
		return url.Values{}
	}
	return values
}
