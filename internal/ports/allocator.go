package ports

import (
	"context"

	"github.com/samber/lo"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/repository"
)

// Allocator hands out internal ports from the fixed pool. Allocation
// happens exactly once, at project creation. The used-ports snapshot is
// advisory: concurrent creations can race, accepted for a low-frequency
// administrative action.
type Allocator struct {
	projects repository.ProjectRepository
}

func NewAllocator(projects repository.ProjectRepository) *Allocator {
	return &Allocator{projects: projects}
}

// Allocate returns the lowest free port in [PortRangeStart, PortRangeEnd].
func (a *Allocator) Allocate(ctx context.Context) (int, error) {
	used, err := a.projects.UsedPorts(ctx)
	if err != nil {
		return 0, err
	}
	taken := lo.SliceToMap(used, func(p int) (int, struct{}) { return p, struct{}{} })
	for port := entity.PortRangeStart; port <= entity.PortRangeEnd; port++ {
		if _, ok := taken[port]; !ok {
			return port, nil
		}
	}
	return 0, entity.ErrPoolExhausted
}
