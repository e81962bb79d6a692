package pageflow

import (
	"github.com/pageflow/pageflow/pkg/api"
)

type Paginator = api.Paginator
type Options = api.Options
type Option = api.Option
type Length = api.Length
type Node = api.Node
type Edit = api.Edit
type Transaction = api.Transaction
type PageNumberAlign = api.PageNumberAlign

func New() (*Paginator, error)                           { return api.New() }
func NewWith(opts ...Option) (*Paginator, error)         { return api.NewWith(opts...) }
func NewWithOptions(options Options) (*Paginator, error) { return api.NewWithOptions(options) }
func DefaultOptions() Options                            { return api.DefaultOptions() }

var (
	Px = api.Px
	Mm = api.Mm
	Pt = api.Pt
	In = api.In

	WithPageSize         = api.WithPageSize
	WithMargins          = api.WithMargins
	WithHeaderFooter     = api.WithHeaderFooter
	WithParagraphSpacing = api.WithParagraphSpacing
	WithPageNumbers      = api.WithPageNumbers
	WithDPI              = api.WithDPI
	WithTypography       = api.WithTypography
	WithResourcePath     = api.WithResourcePath
	WithTitle            = api.WithTitle
	WithAuthor           = api.WithAuthor
	WithPageSizeA4       = api.WithPageSizeA4
	WithPageSizeLetter   = api.WithPageSizeLetter
	WithPageSizeLegal    = api.WithPageSizeLegal
)

const (
	PageNumberLeft   = api.PageNumberLeft
	PageNumberCenter = api.PageNumberCenter
	PageNumberRight  = api.PageNumberRight
)
