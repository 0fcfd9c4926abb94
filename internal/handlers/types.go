package handlers

// ShortenRequest is the request body for creating a short link.
type ShortenRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"http://foo/very/long/path" json:"url"`
	}
}

// ShortenResponse is the response for a successfully created short link.
type ShortenResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Code     string `doc:"The short code"     example:"a1e7812e2"             json:"code"`
		ShortURL string `doc:"The full short URL" example:"http://foo/short/a1e7812e2" json:"shortUrl"`
	}
}

// RedirectRequest is the request for following a short link.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"a1e7812e2" path:"code"`
}

// RedirectResponse redirects to the resolved original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}
