package ledger

import "github.com/khata-dev/khata/internal/model"

// Dedupe filters batch down to the rows whose natural key is absent
// from known, dropping repeats within the batch as well so key
// uniqueness holds per account. It reads known without mutating it;
// re-running over the same inputs returns the same result.
func Dedupe(batch []model.Transaction, known map[string]struct{}) (fresh []model.Transaction, suppressed int) {
	seen := make(map[string]struct{}, len(known)+len(batch))
	for k := range known {
		seen[k] = struct{}{}
	}

	for _, txn := range batch {
		key := txn.Key()
		if _, dup := seen[key]; dup {
			suppressed++
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, txn)
	}
	return fresh, suppressed
}
