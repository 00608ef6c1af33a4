package openalex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchAuthors searches for authors by display name, constrained to a
// single institutional affiliation. Results come back in OpenAlex
// relevance order; callers wanting "the best match" take the first.
func (c *Client) SearchAuthors(ctx context.Context, name, institutionID string) ([]Author, error) {
	filter := fmt.Sprintf("display_name.search:%s", name)
	if institutionID != "" {
		filter += fmt.Sprintf(",affiliations.institution.id:%s", institutionID)
	}

	params := url.Values{}
	params.Set("filter", filter)
	params.Set("per-page", strconv.Itoa(AuthorSearchLimit))

	var resp authorsResponse
	if err := c.getWithRetry(ctx, "/authors", params, &resp); err != nil {
		return nil, fmt.Errorf("searching authors: %w", err)
	}

	return resp.Results, nil
}
