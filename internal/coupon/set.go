package coupon

// codeSet is a map-backed CodeSet. It is read-only once loading finished.
type codeSet struct {
	codes map[string]struct{}
}

// NewCodeSet creates a set holding the given codes.
func NewCodeSet(codes ...string) CodeSet {
	return newCodeSet(codes...)
}

func newCodeSet(codes ...string) *codeSet {
	s := &codeSet{codes: make(map[string]struct{}, len(codes))}
	for _, code := range codes {
		s.add(code)
	}
	return s
}

func (s *codeSet) Contains(code string) bool {
	_, ok := s.codes[code]
	return ok
}

func (s *codeSet) Size() int {
	return len(s.codes)
}

func (s *codeSet) add(code string) {
	s.codes[code] = struct{}{}
}
