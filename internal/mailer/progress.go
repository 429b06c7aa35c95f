package mailer

import "bytes"

// progressReader reports upload progress as the HTTP transport drains the
// request body. Percentages are monotonic and deduplicated, so a caller
// rendering a progress bar never sees the same value twice.
type progressReader struct {
	r        *bytes.Reader
	total    int
	sent     int
	lastPct  int
	callback ProgressFunc
}

func newProgressReader(body []byte, cb ProgressFunc) *progressReader {
	return &progressReader{
		r:        bytes.NewReader(body),
		total:    len(body),
		lastPct:  -1,
		callback: cb,
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.sent += n
	if p.callback != nil && p.total > 0 {
		pct := p.sent * 100 / p.total
		if pct != p.lastPct {
			p.lastPct = pct
			p.callback(pct)
		}
	}
	return n, err
}
