package collection

import (
	"time"

	"github.com/google/uuid"

	"github.com/fulldump/fallbackdb/value"
)

// applyDefaults fills fields missing from item. String defaults "uuid()",
// "unixnano()" and "auto()" are generators.
func applyDefaults(item value.Record, defaults value.Record, auto int64) {
	for k, v := range defaults {
		if current, exists := item[k]; exists && !current.IsNull() {
			continue
		}
		generator, _ := v.AsString()
		switch generator {
		case "uuid()":
			item[k] = value.String(uuid.NewString())
		case "unixnano()":
			item[k] = value.Int(time.Now().UnixNano())
		case "auto()":
			item[k] = value.Int(auto)
		default:
			item[k] = v.Clone()
		}
	}
}
