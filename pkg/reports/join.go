package reports

import (
	"context"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttachReporters fills in the public profile of whoever submitted each
// report, loading every distinct reporter once. Reports whose reporter no
// longer exists keep a nil ReportedBy.
func AttachReporters(ctx context.Context, users store.UserStore, accidents ...*models.Accident) error {
	if len(accidents) == 0 {
		return nil
	}

	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, accident := range accidents {
		if !seen[accident.ReportedByID] {
			seen[accident.ReportedByID] = true
			ids = append(ids, accident.ReportedByID)
		}
	}

	reporters, err := users.GetMany(ctx, ids)
	if err != nil {
		return err
	}

	for _, accident := range accidents {
		accident.ReportedBy = reporters[accident.ReportedByID].Summary()
	}

	return nil
}

// FindPage runs a paginated listing and joins the reporters of the page.
func FindPage(ctx context.Context, accidents store.AccidentStore, users store.UserStore, query store.AccidentQuery, page models.Page) (models.Paged[*models.Accident], error) {
	found, err := accidents.Find(ctx, query, store.FindOptions{Skip: page.Skip(), Limit: page.Size})
	if err != nil {
		return models.Paged[*models.Accident]{}, err
	}

	total, err := accidents.Count(ctx, query)
	if err != nil {
		return models.Paged[*models.Accident]{}, err
	}

	if err := AttachReporters(ctx, users, found...); err != nil {
		return models.Paged[*models.Accident]{}, err
	}

	return models.NewPaged(found, page, total), nil
}
