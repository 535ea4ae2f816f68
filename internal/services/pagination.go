package services

import "globetrotter/pkg/utils"

const maxPageSize = 100

// normalizePage applies defaults to zero values and rejects out-of-range input.
func normalizePage(page, limit, defaultLimit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if page < 1 {
		return 0, 0, utils.ErrInvalidPage
	}
	if limit < 1 || limit > maxPageSize {
		return 0, 0, utils.ErrInvalidPageSize
	}
	return page, limit, nil
}
