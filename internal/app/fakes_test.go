package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/paddock/internal/domain/model"
)

// fakeUpstream serves one 2025 season: two races plus a practice session after them.
type fakeUpstream struct {
	mu            sync.Mutex
	down          bool
	positionCalls atomic.Int32
	delay         time.Duration
}

func (f *fakeUpstream) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeUpstream) isDown() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.down
}

var errUnavailable = errors.New("upstream unavailable")

func (f *fakeUpstream) Sessions(_ context.Context, q model.SessionQuery) ([]model.Session, error) {
	if f.isDown() {
		return nil, errUnavailable
	}
	if q.Year != 2025 {
		return []model.Session{}, nil
	}
	races := []model.Session{
		{Key: 200, Name: "Race", DateStart: "2025-03-23T07:00:00+00:00", Year: 2025},
		{Key: 100, Name: "Race", DateStart: "2025-03-16T04:00:00+00:00", Year: 2025},
	}
	if q.Name == "Race" {
		return races, nil
	}
	return append(races, model.Session{Key: 300, Name: "Practice 1", DateStart: "2025-04-04T02:30:00+00:00", Year: 2025}), nil
}

func (f *fakeUpstream) Drivers(_ context.Context, sessionKey int) ([]model.Driver, error) {
	if f.isDown() {
		return nil, errUnavailable
	}
	drivers := []model.Driver{
		{Number: 81, FullName: "Oscar PIASTRI", TeamName: "McLaren"},
		{Number: 4, FullName: "Lando NORRIS", TeamName: "McLaren"},
		{Number: 1, FullName: "Max VERSTAPPEN", TeamName: "Red Bull Racing"},
		{Number: 4, FullName: "Lando NORRIS", TeamName: "Duplicate"},
	}
	if sessionKey == 300 {
		drivers = append(drivers, model.Driver{Number: 43, FullName: "Franco COLAPINTO", TeamName: "Alpine"})
	}
	return drivers, nil
}

func (f *fakeUpstream) Positions(_ context.Context, sessionKey int) (model.PositionBatch, error) {
	f.positionCalls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.isDown() {
		return model.PositionBatch{}, errUnavailable
	}
	switch sessionKey {
	case 100:
		return model.PositionBatch{Shape: model.ShapeList, Records: []model.Position{
			{DriverNumber: 4, Position: 1, Date: "2025-03-16T06:00:00+00:00"},
			{DriverNumber: 1, Position: 2, Date: "2025-03-16T06:00:00+00:00"},
			{DriverNumber: 81, Position: 9, Date: "2025-03-16T06:00:00+00:00"},
		}}, nil
	case 200:
		return model.PositionBatch{Shape: model.ShapeWrappedData, Records: []model.Position{
			{DriverNumber: 4, Position: 2, Date: "2025-03-23T09:00:00+00:00"},
			{DriverNumber: 1, Position: 4, Date: "2025-03-23T09:00:00+00:00"},
			{DriverNumber: 81, Position: 1, Date: "2025-03-23T09:00:00+00:00"},
		}}, nil
	}
	return model.PositionBatch{}, nil
}

func (f *fakeUpstream) Meetings(_ context.Context, year int) ([]model.Meeting, error) {
	if f.isDown() {
		return nil, errUnavailable
	}
	return []model.Meeting{
		{Key: 1255, CircuitKey: 49, Name: "Chinese Grand Prix", DateStart: "2025-03-21T03:30:00+00:00", Year: year},
		{Key: 1254, CircuitKey: 10, Name: "Australian Grand Prix", DateStart: "2025-03-14T01:30:00+00:00", Year: year},
	}, nil
}
