package availability

import "context"

// Source tells where a resolved collection came from.
type Source int

const (
	SourceLive Source = iota
	SourceMock
	SourceEmpty
)

func (s Source) String() string {
	switch s {
	case SourceLive:
		return "live"
	case SourceMock:
		return "mock"
	}
	return "empty"
}

// Result is a collection resolved for display.
type Result[T any] struct {
	Items  []T
	Source Source
	Banner string // "" when live
	Err    error  // set when a live read failed
}

// Resolve loads a collection according to the service state. A live read
// that fails moves the service to StateMock and falls back like an
// unavailable gateway, keeping the error in Result.Err.
func Resolve[T any](ctx context.Context, svc *Service, fetch func(context.Context) ([]T, error), mock func() []T) Result[T] {
	if svc.Init(ctx) == StateLive {
		items, err := fetch(ctx)
		if err == nil {
			if items == nil {
				items = []T{}
			}
			return Result[T]{Items: items, Source: SourceLive}
		}
		svc.MarkUnavailable(ctx)
		res := Fallback(svc, mock)
		res.Err = err
		return res
	}
	return Fallback(svc, mock)
}

// Fallback returns what is displayed instead of live data: the mock
// collection when mock fallback is on, otherwise an empty one.
func Fallback[T any](svc *Service, mock func() []T) Result[T] {
	res := Result[T]{Items: []T{}, Source: SourceEmpty, Banner: svc.Banner()}
	if svc.MockFallback() && mock != nil {
		res.Items = mock()
		res.Source = SourceMock
	}
	return res
}
