package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/store"
)

// textConf is a minimal configuration implementation for tests. It
// serializes to raw bytes so that no protobuf declaration is needed.
type textConf struct {
	Text string
}

func (c *textConf) Marshal() ([]byte, error) {
	return []byte(c.Text), nil
}

func (c *textConf) Unmarshal(raw []byte) error {
	c.Text = string(raw)
	return nil
}

func (c *textConf) Validate() error {
	if c.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

func (c *textConf) UnmarshalJSON(raw []byte) error {
	var payload struct {
		Text string
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	c.Text = payload.Text
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	if err := Save(db, "mypkg", &textConf{Text: "foobar"}); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}

	var got textConf
	if err := Load(db, "mypkg", &got); err != nil {
		t.Fatalf("cannot load configuration: %s", err)
	}
	if got.Text != "foobar" {
		t.Fatalf("unexpected configuration loaded: %+v", got)
	}
}

func TestSaveValidates(t *testing.T) {
	db := store.MemStore()
	if err := Save(db, "mypkg", &textConf{}); !errors.ErrEmpty.Is(err) {
		t.Fatalf("saving an invalid configuration must fail, got %+v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var got textConf
	if err := Load(db, "mypkg", &got); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want a not found error, got %+v", err)
	}
}

func TestConfigurationsAreSeparatedPerPackage(t *testing.T) {
	db := store.MemStore()

	if err := Save(db, "first", &textConf{Text: "a"}); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}
	if err := Save(db, "second", &textConf{Text: "b"}); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}

	var got textConf
	if err := Load(db, "first", &got); err != nil {
		t.Fatalf("cannot load configuration: %s", err)
	}
	if got.Text != "a" {
		t.Fatalf("unexpected configuration loaded: %+v", got)
	}
}

func TestInitConfig(t *testing.T) {
	db := store.MemStore()
	opts := rill.Options{
		"conf": json.RawMessage(`{"mypkg": {"text": "from genesis"}}`),
	}

	var conf textConf
	if err := InitConfig(db, opts, "mypkg", &conf); err != nil {
		t.Fatalf("cannot initialize configuration: %s", err)
	}

	var got textConf
	if err := Load(db, "mypkg", &got); err != nil {
		t.Fatalf("cannot load configuration: %s", err)
	}
	if got.Text != "from genesis" {
		t.Fatalf("unexpected configuration loaded: %+v", got)
	}
}
