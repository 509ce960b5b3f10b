package db

import (
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"

	"pdclean/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{
		MySQLHost:      "db.local",
		MySQLPort:      3307,
		MySQLUser:      "cleaner",
		MySQLPassword:  "s3cret",
		MySQLDB:        "cpdb",
		ConnectTimeout: 5 * time.Second,
		QueryTimeout:   30 * time.Second,
	}
	dsn, err := DSN(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dsn, "cleaner:s3cret@tcp(db.local:3307)/cpdb?") {
		t.Errorf("DSN = %q", dsn)
	}
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN: %v", err)
	}
	if !mc.ParseTime || mc.Timeout != 5*time.Second || mc.ReadTimeout != 30*time.Second {
		t.Errorf("parsed config = %+v", mc)
	}
	if mc.Collation != "utf8mb4_unicode_ci" || !strings.Contains(dsn, "charset=utf8mb4") {
		t.Errorf("charset/collation missing from %q", dsn)
	}
	if mc.Params["time_zone"] != "'+00:00'" {
		t.Errorf("time_zone = %q", mc.Params["time_zone"])
	}
}
