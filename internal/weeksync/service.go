// Package weeksync moves the local week draft to and from the backend.
package weeksync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ihildy/weekhours/internal/api"
	"github.com/ihildy/weekhours/internal/store"
	"github.com/ihildy/weekhours/internal/week"
)

// Remote is the subset of the backend client the workflows need.
type Remote interface {
	GetCurrentWeek(ctx context.Context) (api.WeekRecord, error)
	SaveCurrentWeek(ctx context.Context, w week.Week) (api.WeekRecord, error)
	GetWeekHistory(ctx context.Context) ([]api.WeekRecord, error)
}

type Drafts interface {
	LoadDraft(ctx context.Context, userID int64) (store.Draft, error)
	SaveDraft(ctx context.Context, d store.Draft) error
}

type Service struct {
	Remote Remote
	Drafts Drafts
	UserID int64
	Now    func() time.Time
}

// ErrStaleDraft is returned when a week edited before the current Monday is
// about to be pushed. The backend always writes to the current week.
var ErrStaleDraft = errors.New("week has rolled over since editing started; the edits belong to an earlier week")

// Draft returns the user's working week. When nothing is stored, or the
// stored draft belongs to an earlier week, it returns a fresh empty week for
// the current Monday.
func (s *Service) Draft(ctx context.Context) (store.Draft, error) {
	d, err := s.Drafts.LoadDraft(ctx, s.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNoDraft) {
			return store.Draft{}, err
		}
		return s.emptyDraft(), nil
	}
	if d.WeekStart != s.currentWeekStart() {
		return s.emptyDraft(), nil
	}
	return d, nil
}

// Edit applies fn to the working week and stores the result. fn reports
// whether it changed anything; an unchanged week is not written.
func (s *Service) Edit(ctx context.Context, fn func(week.Week) (week.Week, bool)) (store.Draft, bool, error) {
	d, err := s.Draft(ctx)
	if err != nil {
		return store.Draft{}, false, err
	}
	next, ok := fn(d.Week)
	if !ok {
		return d, false, nil
	}
	d.Week = next
	if err := s.Drafts.SaveDraft(ctx, d); err != nil {
		return store.Draft{}, false, err
	}
	return d, true, nil
}

// Pull fetches the current week and overwrites the draft wholesale. A record
// with no days leaves the draft alone.
func (s *Service) Pull(ctx context.Context) (store.Draft, bool, error) {
	rec, err := s.Remote.GetCurrentWeek(ctx)
	if err != nil {
		return store.Draft{}, false, err
	}
	if len(rec.WeekData) == 0 {
		d, err := s.Draft(ctx)
		return d, false, err
	}
	d := s.fromRecord(rec)
	if err := s.Drafts.SaveDraft(ctx, d); err != nil {
		return store.Draft{}, false, err
	}
	return d, true, nil
}

// Save pushes the current week's draft and then reloads it from the backend
// to confirm. A draft left over from an earlier week is never pushed, and
// when the push fails the draft is left exactly as it was.
func (s *Service) Save(ctx context.Context) (store.Draft, error) {
	d, err := s.Drafts.LoadDraft(ctx, s.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNoDraft) {
			return store.Draft{}, fmt.Errorf("nothing to save for the week of %s: %w", s.currentWeekStart(), err)
		}
		return store.Draft{}, err
	}
	if d.WeekStart != s.currentWeekStart() {
		return store.Draft{}, ErrStaleDraft
	}
	if _, err := s.Remote.SaveCurrentWeek(ctx, d.Week); err != nil {
		return store.Draft{}, err
	}
	confirmed, _, err := s.Pull(ctx)
	if err != nil {
		return store.Draft{}, fmt.Errorf("saved, but reload failed: %w", err)
	}
	return confirmed, nil
}

// SaveWeek stores w as the draft and pushes it. weekStart is the Monday w
// was loaded for; a week from before the current Monday is refused.
func (s *Service) SaveWeek(ctx context.Context, weekStart string, w week.Week) (store.Draft, error) {
	if weekStart != s.currentWeekStart() {
		return store.Draft{}, ErrStaleDraft
	}
	d, err := s.Draft(ctx)
	if err != nil {
		return store.Draft{}, err
	}
	d.Week = w
	if err := s.Drafts.SaveDraft(ctx, d); err != nil {
		return store.Draft{}, err
	}
	return s.Save(ctx)
}

func (s *Service) History(ctx context.Context) ([]api.WeekRecord, error) {
	return s.Remote.GetWeekHistory(ctx)
}

func (s *Service) ResetDraft(ctx context.Context) (store.Draft, error) {
	d := s.emptyDraft()
	if err := s.Drafts.SaveDraft(ctx, d); err != nil {
		return store.Draft{}, err
	}
	return d, nil
}

// ReplaceDraft overwrites the current week's draft with w. weekStart, when
// set, is the Monday w was loaded for and must still be the current one; an
// empty weekStart applies w to the current week as is.
func (s *Service) ReplaceDraft(ctx context.Context, weekStart string, w week.Week) (store.Draft, error) {
	if weekStart != "" && weekStart != s.currentWeekStart() {
		return store.Draft{}, ErrStaleDraft
	}
	d, err := s.Draft(ctx)
	if err != nil {
		return store.Draft{}, err
	}
	d.Week = w.Clone()
	if err := s.Drafts.SaveDraft(ctx, d); err != nil {
		return store.Draft{}, err
	}
	return d, nil
}

func (s *Service) fromRecord(rec api.WeekRecord) store.Draft {
	// The draft is keyed to the local Monday so a server in another time zone
	// cannot make a fresh pull look stale.
	return store.Draft{
		UserID:    s.UserID,
		RecordID:  rec.ID,
		WeekStart: s.currentWeekStart(),
		Week:      rec.WeekData.Clone(),
	}
}

func (s *Service) emptyDraft() store.Draft {
	return store.Draft{
		UserID:    s.UserID,
		WeekStart: s.currentWeekStart(),
		Week:      week.NewEmptyWeek(),
	}
}

func (s *Service) currentWeekStart() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return week.WeekStartMonday(now()).Format("2006-01-02")
}
