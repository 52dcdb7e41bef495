package outbox

import "github.com/dmitrijs2005/gophbudget/internal/client/models"

// Coalesce merges a new operation into one already queued for the same entity.
// keep is false when the two cancel out and nothing needs to reach the server.
// sent reports whether the queued op may already have been applied remotely.
//
//	add    + update -> add
//	add    + delete -> (nothing), or delete when sent
//	update + update -> update
//	update + delete -> delete
//	delete + add    -> update
func Coalesce(prev, next models.Op, sent bool) (op models.Op, keep bool) {
	switch prev {
	case models.OpAdd:
		switch next {
		case models.OpDelete:
			if sent {
				return models.OpDelete, true
			}
			return "", false
		default:
			return models.OpAdd, true
		}
	case models.OpUpdate:
		if next == models.OpDelete {
			return models.OpDelete, true
		}
		return models.OpUpdate, true
	case models.OpDelete:
		if next == models.OpDelete {
			return models.OpDelete, true
		}
		// the entity still exists remotely, so a re-add is an overwrite
		return models.OpUpdate, true
	}
	return next, true
}
