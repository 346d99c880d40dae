package catalog

// ProductAggregate is the composed view of one product plus everything the
// secondary services know about it. It is never persisted.
type ProductAggregate struct {
	ProductID        int                     `json:"productId"`
	Name             string                  `json:"name"`
	Weight           int                     `json:"weight"`
	Recommendations  []RecommendationSummary `json:"recommendations"`
	Reviews          []ReviewSummary         `json:"reviews"`
	ServiceAddresses ServiceAddresses        `json:"serviceAddresses"`
}

type RecommendationSummary struct {
	RecommendationID int    `json:"recommendationId"`
	Author           string `json:"author"`
	Rate             int    `json:"rate"`
	Content          string `json:"content"`
}

type ReviewSummary struct {
	ReviewID int    `json:"reviewId"`
	Author   string `json:"author"`
	Subject  string `json:"subject"`
	Content  string `json:"content"`
}

// ServiceAddresses records which physical instance produced each sub-result.
// Debug provenance only; an empty string means the data did not come from a
// live instance (empty list or failed fetch).
type ServiceAddresses struct {
	Composite      string `json:"cmp"`
	Product        string `json:"pro"`
	Review         string `json:"rev"`
	Recommendation string `json:"rec"`
}
