package usecase

import "github.com/khanhng/taskscope/internal/domain"

// defaultStoreInLimit matches the equality-list size most document stores
// accept in a single query; the real limit is injected from config.
const defaultStoreInLimit = 30

// PlanQueries translates an admissible user-id set plus filters into
// store-agnostic sub-queries. The assignee predicate is chunked at the
// store's declared equality-list limit; merging and deduplication of the
// fan-out results is the orchestrator's job.
//
// An empty admissible set yields no sub-queries at all: nothing is fetched
// for a scope that contains no users.
func PlanQueries(userIDs []string, filter domain.TaskFilter, chunkSize int) []domain.QuerySpec {
	if len(userIDs) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = defaultStoreInLimit
	}

	specs := make([]domain.QuerySpec, 0, (len(userIDs)+chunkSize-1)/chunkSize)
	for start := 0; start < len(userIDs); start += chunkSize {
		end := start + chunkSize
		if end > len(userIDs) {
			end = len(userIDs)
		}
		specs = append(specs, domain.QuerySpec{
			AssignedTo: append([]string(nil), userIDs[start:end]...),
			Filter:     filter,
		})
	}
	return specs
}
