package mock

import "github.com/fwojciec/zealgen"

var _ zealgen.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of zealgen.URLFrontier.
type URLFrontier struct {
	PushFn func(link zealgen.Link) bool
	PopFn  func() (zealgen.Link, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *URLFrontier) Push(link zealgen.Link) bool {
	return f.PushFn(link)
}

func (f *URLFrontier) Pop() (zealgen.Link, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}
