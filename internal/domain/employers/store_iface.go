package employers

import "context"

type StoreAPI interface {
	List(ctx context.Context, limit, offset int) ([]Employer, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, employerID string) (Employer, error)
	Update(ctx context.Context, employer Employer) (Employer, error)
}
