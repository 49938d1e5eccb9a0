package pagination

type Pagination struct {
	CurrentPage  int32
	TotalPages   int32
	TotalItems   int32
	ItemsPerPage int32
}

func New(page, limit int, total int64) Pagination {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = total / int64(limit)
		if total%int64(limit) != 0 {
			totalPages++
		}
	}
	return Pagination{
		CurrentPage:  int32(page),
		TotalPages:   int32(totalPages),
		TotalItems:   int32(total),
		ItemsPerPage: int32(limit),
	}
}
