package cli

import (
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
)

func TestIndexConfig(t *testing.T) {
	cfg := getIndexConfig()

	gt.A(t, cfg.Collections).Length(1).Required()
	col := cfg.Collections[0]
	gt.Value(t, col.Name).Equal("communities")

	gt.A(t, col.Indexes).Length(1).Required()
	fields := col.Indexes[0].Fields
	gt.A(t, fields).Length(2).Required()
	gt.Value(t, fields[0].Path).Equal("group_id")
	gt.Value(t, fields[0].Order).Equal(fireconf.OrderAscending)
	gt.Value(t, fields[1].Path).Equal("updated_at")
	gt.Value(t, fields[1].Order).Equal(fireconf.OrderDescending)
}
