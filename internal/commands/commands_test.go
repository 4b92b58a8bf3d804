package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"meteochart/internal/config"
	"meteochart/internal/modules/weather/export"
)

func testContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	dataDir, err := filepath.Abs(filepath.Join("..", "..", "data"))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	var stdout bytes.Buffer
	return &Context{
		Ctx: context.Background(),
		Config: config.Config{
			DataDir:      dataDir,
			Driver:       "sqlite3",
			Path:         filepath.Join(t.TempDir(), "meteochart.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			FetchTimeout: time.Second,
			ChartWidth:   960,
			ChartHeight:  600,
			MQTT: config.MQTTConfig{
				Broker:   "127.0.0.1",
				Port:     1,
				ClientID: "meteochart-test",
				Topic:    "meteochart/daily",
			},
		},
		Stdout: &stdout,
	}, &stdout
}

func TestRenderCmd(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		c, stdout := testContext(t)
		cmd := &RenderCmd{Sel: "temperature,precipitation,windRange", Out: "-", Width: 640}
		if err := cmd.Run(c); err != nil {
			t.Fatalf("Run: %v", err)
		}
		out := stdout.String()
		if !strings.HasPrefix(out, "<svg") {
			t.Errorf("stdout is not svg: %.60q", out)
		}
		if !strings.Contains(out, `viewBox="0 0 640 400"`) {
			t.Errorf("svg size is not 640x400: %.200q", out)
		}
	})

	t.Run("file", func(t *testing.T) {
		c, stdout := testContext(t)
		path := filepath.Join(t.TempDir(), "chart.svg")
		if err := (&RenderCmd{Sel: "humidity", Out: path}).Run(c); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if stdout.Len() != 0 {
			t.Errorf("stdout = %q; want empty", stdout.String())
		}
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !bytes.Contains(b, []byte(`viewBox="0 0 960 600"`)) {
			t.Errorf("file does not use the configured width")
		}
	})

	t.Run("negative width", func(t *testing.T) {
		c, _ := testContext(t)
		if err := (&RenderCmd{Out: "-", Width: -1}).Run(c); err == nil {
			t.Error("Run() error = nil; want error")
		}
	})

	t.Run("missing data", func(t *testing.T) {
		c, _ := testContext(t)
		c.Config.DataDir = t.TempDir()
		if err := (&RenderCmd{Out: "-"}).Run(c); err == nil {
			t.Error("Run() error = nil; want load error")
		}
	})
}

func TestExportCmd(t *testing.T) {
	c, _ := testContext(t)
	path := filepath.Join(t.TempDir(), "weather.xlsx")
	if err := (&ExportCmd{Out: path}).Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer wb.Close()
	rows, err := wb.GetRows(export.SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 15 {
		t.Fatalf("rows = %d; want header + 14 days", len(rows))
	}
	if rows[1][0] != "2024-03-01" || rows[14][0] != "2024-03-14" {
		t.Errorf("dates = %s..%s; want 2024-03-01..2024-03-14", rows[1][0], rows[14][0])
	}
}

func TestMigrateCmd(t *testing.T) {
	c, _ := testContext(t)
	for i := 0; i < 2; i++ {
		if err := (&MigrateCmd{}).Run(c); err != nil {
			t.Fatalf("Run #%d: %v", i+1, err)
		}
	}
	if _, err := os.Stat(c.Config.Path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestPublishCmd_BrokerDown(t *testing.T) {
	c, _ := testContext(t)
	start := time.Now()
	err := (&PublishCmd{ConnectTimeout: 300 * time.Millisecond}).Run(c)
	if err == nil {
		t.Fatal("Run() error = nil; want connect error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run took %v; want the connect timeout to apply", elapsed)
	}
}
