package charset

// unknownCharset is the sentinel returned when a requested charset
// cannot be resolved: recode is the identity function and reverse
// always fails, per spec. Sentinels are immutable singletons and are
// never entered into the cache's free list.
type unknownCharset struct {
	name string
	tag  Tag
}

func (u *unknownCharset) Name() string    { return u.name }
func (u *unknownCharset) Tag() Tag        { return u.tag }
func (u *unknownCharset) Final() byte     { return 0 }
func (u *unknownCharset) Recode(n int) int { return n }
func (u *unknownCharset) Reverse(rune) int { return -1 }
func (u *unknownCharset) IsOther() bool   { return false }
func (u *unknownCharset) NewCodec() Codec { panic("charset: NewCodec on non-other charset") }

var (
	Unknown94   Charset = &unknownCharset{"Unknown (94)", T94}
	Unknown96   Charset = &unknownCharset{"Unknown (96)", T96}
	Unknown9494 Charset = &unknownCharset{"Unknown (94x94)", T9494}
	Unknown9696 Charset = &unknownCharset{"Unknown (96x96)", T9696}
)

// GetUnknown returns the sentinel charset for tag, defaulting to the
// 94-set sentinel for any tag without a dedicated sentinel.
func GetUnknown(tag Tag) Charset {
	switch tag {
	case T94:
		return Unknown94
	case T96:
		return Unknown96
	case T9494:
		return Unknown9494
	case T9696:
		return Unknown9696
	default:
		return Unknown94
	}
}
