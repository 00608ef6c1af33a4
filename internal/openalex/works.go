package openalex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Qualifying-works filter, fixed by the ingestion contract: peer-level
// document types, post-2010, abstract present.
const (
	worksTypeFilter = "article|preprint|book-chapter|dissertation"
	worksYearFilter = ">2010"
)

// ListAuthorWorks retrieves every qualifying work for an author,
// paginating with cursors until the source is exhausted. Order is
// preserved as returned (OpenAlex default: newest first). There is no
// result cap; ingestion either gets the complete set or fails.
func (c *Client) ListAuthorWorks(ctx context.Context, authorID string) ([]Work, error) {
	filter := fmt.Sprintf("type:%s,authorships.author.id:%s,publication_year:%s,has_abstract:true",
		worksTypeFilter, authorID, worksYearFilter)

	var works []Work
	cursor := "*"
	for cursor != "" {
		params := url.Values{}
		params.Set("filter", filter)
		params.Set("per-page", strconv.Itoa(WorksPageSize))
		params.Set("cursor", cursor)

		var resp worksResponse
		if err := c.getWithRetry(ctx, "/works", params, &resp); err != nil {
			return nil, fmt.Errorf("listing works for %s: %w", authorID, err)
		}

		works = append(works, resp.Results...)

		// An empty page with a cursor would loop forever; treat it as
		// the end of results.
		if len(resp.Results) == 0 {
			break
		}
		cursor = resp.Meta.NextCursor
	}

	return works, nil
}
