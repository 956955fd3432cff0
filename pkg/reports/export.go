package reports

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
)

type exportRow struct {
	ID          string `csv:"id"`
	Title       string `csv:"title"`
	Location    string `csv:"location"`
	Latitude    string `csv:"latitude"`
	Longitude   string `csv:"longitude"`
	DateTime    string `csv:"dateTime"`
	Severity    string `csv:"severity"`
	Category    string `csv:"category"`
	Status      string `csv:"status"`
	Fatalities  int    `csv:"fatalities"`
	Injuries    int    `csv:"injuries"`
	Vehicles    int    `csv:"vehicles"`
	IsVerified  bool   `csv:"isVerified"`
	ReportedBy  string `csv:"reportedBy"`
	Description string `csv:"description"`
}

func newExportRow(accident *models.Accident) *exportRow {
	row := &exportRow{
		ID:          accident.ID.Hex(),
		Title:       accident.Title,
		Location:    accident.Location,
		DateTime:    accident.DateTime.UTC().Format(time.RFC3339),
		Severity:    string(accident.Severity),
		Category:    string(accident.Category),
		Status:      string(accident.Status),
		Fatalities:  accident.Casualties.Fatalities,
		Injuries:    accident.Casualties.Injuries,
		Vehicles:    len(accident.Vehicles),
		IsVerified:  accident.IsVerified,
		Description: accident.Description,
	}

	if accident.Coordinates != nil && accident.Coordinates.Latitude != nil {
		row.Latitude = strconv.FormatFloat(*accident.Coordinates.Latitude, 'f', -1, 64)
	}
	if accident.Coordinates != nil && accident.Coordinates.Longitude != nil {
		row.Longitude = strconv.FormatFloat(*accident.Coordinates.Longitude, 'f', -1, 64)
	}
	if accident.ReportedBy != nil {
		row.ReportedBy = accident.ReportedBy.Username
	}

	return row
}

// Export writes every report matching query as CSV, newest first.
func (s *Service) Export(ctx context.Context, query store.AccidentQuery, out io.Writer) error {
	accidents, err := s.Accidents.Find(ctx, query, store.FindOptions{})
	if err != nil {
		return err
	}

	if err := AttachReporters(ctx, s.Users, accidents...); err != nil {
		return err
	}

	rows := make([]*exportRow, 0, len(accidents))
	for _, accident := range accidents {
		rows = append(rows, newExportRow(accident))
	}

	return gocsv.Marshal(rows, out)
}
