// AngelaMos | 2026
// search.go

package petition

import (
	"fmt"
	"strings"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

const (
	SortAlphabeticalAsc  = "ALPHABETICAL_ASC"
	SortAlphabeticalDesc = "ALPHABETICAL_DESC"
	SortCostAsc          = "COST_ASC"
	SortCostDesc         = "COST_DESC"
	SortCreatedAsc       = "CREATED_ASC"
	SortCreatedDesc      = "CREATED_DESC"
)

// Tierless petitions sort as infinitely expensive under the cost
// orderings, hence NULLS LAST on both directions.
var orderClauses = map[string]string{
	SortAlphabeticalAsc:  "p.title ASC",
	SortAlphabeticalDesc: "p.title DESC",
	SortCostAsc:          "supporting_cost ASC NULLS LAST",
	SortCostDesc:         "supporting_cost DESC NULLS LAST",
	SortCreatedAsc:       "p.created_at ASC",
	SortCreatedDesc:      "p.created_at DESC",
}

type SearchParams struct {
	Q              string
	CategoryIDs    []int64
	SupportingCost *int64
	OwnerID        *int64
	SupporterID    *int64
	SortBy         string
	StartIndex     int
	Count          *int
}

type SearchResult struct {
	Petitions []SummaryRow
	Count     int
}

const summaryColumns = `
	p.id, p.title, p.category_id, p.owner_id,
	u.first_name AS owner_first_name, u.last_name AS owner_last_name,
	p.created_at,
	(SELECT COUNT(DISTINCT s.user_id)
	   FROM supporters s WHERE s.petition_id = p.id) AS number_of_supporters,
	(SELECT MIN(t.cost)
	   FROM support_tiers t WHERE t.petition_id = p.id) AS supporting_cost`

// BuildSearchQuery renders the petition listing into a count query and a
// page query sharing one conjunctive predicate set. All user data goes
// through positional args. The page query applies LIMIT only when Count
// is set and OFFSET only when StartIndex is positive.
func BuildSearchQuery(
	params SearchParams,
) (listQuery, countQuery string, listArgs, countArgs []any, err error) {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = SortCreatedAsc
	}
	orderBy, ok := orderClauses[sortBy]
	if !ok {
		return "", "", nil, nil, fmt.Errorf(
			"search: unknown sortBy %q: %w", sortBy, core.ErrInvalidInput)
	}

	var conditions []string
	var args []any
	argIdx := 1

	if params.Q != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(p.title ILIKE $%d OR p.description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Q)+"%")
		argIdx++
	}

	if len(params.CategoryIDs) > 0 {
		conditions = append(conditions,
			fmt.Sprintf("p.category_id = ANY($%d)", argIdx))
		args = append(args, params.CategoryIDs)
		argIdx++
	}

	if params.SupportingCost != nil {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM support_tiers t
			 WHERE t.petition_id = p.id AND t.cost <= $%d)`, argIdx))
		args = append(args, *params.SupportingCost)
		argIdx++
	}

	if params.OwnerID != nil {
		conditions = append(conditions,
			fmt.Sprintf("p.owner_id = $%d", argIdx))
		args = append(args, *params.OwnerID)
		argIdx++
	}

	if params.SupporterID != nil {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM supporters s
			 WHERE s.petition_id = p.id AND s.user_id = $%d)`, argIdx))
		args = append(args, *params.SupporterID)
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery = "SELECT COUNT(*) FROM petitions p" + whereClause
	countArgs = args

	var b strings.Builder
	b.WriteString("SELECT")
	b.WriteString(summaryColumns)
	b.WriteString("\nFROM petitions p\nJOIN users u ON u.id = p.owner_id")
	b.WriteString(whereClause)
	b.WriteString("\nORDER BY " + orderBy + ", p.id ASC")

	listArgs = args[:len(args):len(args)]

	if params.Count != nil {
		b.WriteString(fmt.Sprintf("\nLIMIT $%d", argIdx))
		listArgs = append(listArgs, *params.Count)
		argIdx++
	}
	if params.StartIndex > 0 {
		b.WriteString(fmt.Sprintf("\nOFFSET $%d", argIdx))
		listArgs = append(listArgs, params.StartIndex)
	}

	return b.String(), countQuery, listArgs, countArgs, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
