package configlibsql

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct locates the manifest database. A remote libsql `url` takes
// priority over a local sqlite `file`.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Struct) Enabled() bool {
	return config.File != "" || config.Url != ""
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url == "" {
		if config.File == "" {
			return nil, fmt.Errorf("neither a file nor a url was specified")
		}
		if config.File != ":memory:" {
			err := os.MkdirAll(filepath.Dir(config.File), 0777)
			if err != nil {
				return nil, err
			}
		}
		return sql.Open("sqlite", config.File)
	}

	values := url.Values{}
	if config.AuthToken != "" {
		values.Add("authToken", config.AuthToken)
	}
	target := config.Url
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	return sql.Open("libsql", target)
}
