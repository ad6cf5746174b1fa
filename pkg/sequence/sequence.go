// Package sequence generates human-readable record handles such as
// ORDER-07 or DIST-12 by scanning the existing column for the highest
// numeric suffix and incrementing it.
//
// Generation is not serialized against concurrent writers: two callers
// racing on the same prefix can compute the same next value and one of
// them will fail on the unique index. Callers should surface that as a
// retryable conflict rather than guard it here.
package sequence

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"gorm.io/gorm"
)

// minWidth pads the numeric suffix so early handles read as ORDER-01.
const minWidth = 2

// Generator issues the next handle for a prefix by inspecting stored rows.
type Generator struct {
	db *gorm.DB
}

// NewGenerator wires a Generator to the given database handle.
func NewGenerator(db *gorm.DB) *Generator {
	return &Generator{db: db}
}

// Next returns the next handle for the prefix, e.g. ORDER-08 when the
// highest existing suffix is 7. An empty table yields PREFIX-01.
// Rows whose value does not match PREFIX-<digits> exactly are ignored.
func (g *Generator) Next(ctx context.Context, table, column, prefix string) (string, error) {
	var values []string
	err := g.db.WithContext(ctx).
		Table(table).
		Where(fmt.Sprintf("%s LIKE ?", column), prefix+"-%").
		Pluck(column, &values).Error
	if err != nil {
		return "", fmt.Errorf("scan %s.%s for prefix %s: %w", table, column, prefix, err)
	}

	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `-(\d+)$`)
	max := 0
	for _, v := range values {
		m := pattern.FindStringSubmatch(v)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return fmt.Sprintf("%s-%0*d", prefix, minWidth, max+1), nil
}
