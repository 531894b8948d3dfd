package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/service"
)

type sentDM struct {
	UserID string
	Text   string
}

type fakeSlack struct {
	mu        sync.Mutex
	dms       []sentDM
	responses []string
	dmErr     error
}

func (f *fakeSlack) PostDM(ctx context.Context, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dmErr != nil {
		return f.dmErr
	}
	f.dms = append(f.dms, sentDM{UserID: userID, Text: text})
	return nil
}

func (f *fakeSlack) Respond(ctx context.Context, responseURL, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, text)
	return nil
}

type fakeRepos struct {
	repos []service.Repository
	err   error
	calls int
}

func (f *fakeRepos) ListRepositories(ctx context.Context) ([]service.Repository, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.repos, nil
}

type fakeDashboard struct {
	url          string
	dashboardErr error
	createErr    error

	getCalls    int
	createCalls int
	lastName    string
	lastExpires time.Duration
}

func (f *fakeDashboard) GetDashboard(ctx context.Context) (json.RawMessage, error) {
	f.getCalls++
	if f.dashboardErr != nil {
		return nil, f.dashboardErr
	}
	return json.RawMessage(`{"title":"Events"}`), nil
}

func (f *fakeDashboard) CreateSnapshot(ctx context.Context, dashboard json.RawMessage, name string, expires time.Duration) (*service.Snapshot, error) {
	f.createCalls++
	f.lastName = name
	f.lastExpires = expires
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &service.Snapshot{Key: "key", URL: f.url}, nil
}

// fakeSnapshotRepo は読み書きのエラーを注入できる単一スロットのリポジトリです
type fakeSnapshotRepo struct {
	record  *domain.SnapshotRecord
	getErr  error
	saveErr error
	saves   int
}

func (f *fakeSnapshotRepo) Get(ctx context.Context) (*domain.SnapshotRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.record == nil {
		return nil, domain.ErrNotFound
	}
	r := *f.record
	return &r, nil
}

func (f *fakeSnapshotRepo) Save(ctx context.Context, r *domain.SnapshotRecord) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *r
	f.record = &copied
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
