package app

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/touchpos/touchpos/pkg/posapi"
	"golang.org/x/sync/errgroup"
)

// TimeLayout is how representation timestamps are displayed.
const TimeLayout = "02.01.2006 15:04"

// RepresentationView is one row of the representations list.
type RepresentationView struct {
	ID                int
	OccurredAt        time.Time
	OccurredAtDisplay string
	UserID            int
	UserName          string
	ReasonName        string
	Note              string
	ItemCount         int
	Source            posapi.Representation
}

func fullName(u *posapi.User) string {
	var parts []string
	for _, p := range []string{u.FirstName, u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func userName(id int, users map[int]*posapi.User) string {
	if u, ok := users[id]; ok {
		if name := fullName(u); name != "" {
			return name
		}
		if u.Username != "" {
			return u.Username
		}
	}
	return "#" + strconv.Itoa(id)
}

// LoadRepresentations fetches the list with reason and user names filled
// in. Nothing is returned until every row is complete. A user that cannot
// be fetched is shown by id.
func (a *App) LoadRepresentations(ctx context.Context) ([]RepresentationView, error) {
	var (
		reasons []posapi.RepresentationReason
		reps    []posapi.Representation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		reasons, err = a.client.RepresentationReasons(gctx, a.session)
		return err
	})
	g.Go(func() (err error) {
		reps, err = a.client.Representations(gctx, a.session)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reasonNames := make(map[int]string, len(reasons))
	for _, r := range reasons {
		if r.Name != "" {
			reasonNames[r.ID] = r.Name
		}
	}
	for i := range reps {
		if strings.TrimSpace(reps[i].ReasonName) == "" {
			if name, ok := reasonNames[reps[i].ReasonID]; ok {
				reps[i].ReasonName = name
			}
		}
	}

	users := a.lookupUsers(ctx, reps)

	views := make([]RepresentationView, 0, len(reps))
	for _, r := range reps {
		views = append(views, RepresentationView{
			ID:                r.ID,
			OccurredAt:        r.OccurredAt,
			OccurredAtDisplay: r.OccurredAt.In(a.loc).Format(TimeLayout),
			UserID:            r.User,
			UserName:          userName(r.User, users),
			ReasonName:        r.ReasonName,
			Note:              r.Note,
			ItemCount:         len(r.Items),
			Source:            r,
		})
	}
	return views, nil
}

// lookupUsers fetches each distinct user once. Failures are logged and
// skipped.
func (a *App) lookupUsers(ctx context.Context, reps []posapi.Representation) map[int]*posapi.User {
	var (
		mu    sync.Mutex
		users = make(map[int]*posapi.User)
		seen  = make(map[int]struct{})
		g     errgroup.Group
	)
	g.SetLimit(a.lookups)
	for _, r := range reps {
		if _, dup := seen[r.User]; dup {
			continue
		}
		seen[r.User] = struct{}{}
		id := r.User
		g.Go(func() error {
			u, err := a.client.User(ctx, a.session, id)
			if err != nil {
				a.log.Warning("app: user %d: %v", id, err)
				return nil
			}
			mu.Lock()
			users[id] = u
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return users
}

// RepresentationDetails fetches one representation and names its items.
// If the article list cannot be fetched the items are named by id.
func (a *App) RepresentationDetails(ctx context.Context, id int) (*posapi.Representation, error) {
	rep, err := a.client.Representation(ctx, a.session, id)
	if err != nil {
		return nil, err
	}

	names := map[int]string{}
	artikli, err := a.client.Artikli(ctx, a.session)
	if err != nil {
		a.log.Warning("app: artikli for representation %d: %v", id, err)
	}
	for _, art := range artikli {
		if art.Name != "" {
			names[art.RmID] = art.Name
		}
	}
	for i := range rep.Items {
		name, ok := names[rep.Items[i].Artikl]
		if !ok {
			name = "#" + strconv.Itoa(rep.Items[i].Artikl)
		}
		rep.Items[i].ArtiklName = name
	}
	return rep, nil
}
