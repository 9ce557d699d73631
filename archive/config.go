package archive

import (
	"fmt"
	"math"

	"github.com/arloliu/cscarchive/endian"
	"github.com/arloliu/cscarchive/format"
	"github.com/arloliu/cscarchive/internal/options"
	"github.com/arloliu/cscarchive/section"
)

// DefaultMaxArrayLength is the default and largest array element count.
const DefaultMaxArrayLength = math.MaxInt32

// maxValueBytes bounds a single encoded value, since offsets and lengths are uint32.
const maxValueBytes = section.MaxSectionBytes

// Config holds the encoding settings of an Archive.
type Config struct {
	compression    format.CompressionType
	intEncoding    format.EncodingType
	floatEncoding  format.EncodingType
	bigEndian      bool
	maxArrayLength int
}

func defaultConfig() *Config {
	return &Config{
		compression:    format.CompressionNone,
		intEncoding:    format.TypeRaw,
		floatEncoding:  format.TypeRaw,
		maxArrayLength: DefaultMaxArrayLength,
	}
}

// Option configures an Archive.
type Option = options.Option[*Config]

// WithCompression sets the payload compression.
func WithCompression(comp format.CompressionType) Option {
	return options.New(func(c *Config) error {
		switch comp {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = comp
			return nil
		default:
			return fmt.Errorf("invalid payload compression: %v", comp)
		}
	})
}

// WithIntArrayEncoding selects raw or delta encoding for Int64Array values.
// Delta suits sorted arrays such as CSC offset vectors.
func WithIntArrayEncoding(enc format.EncodingType) Option {
	return options.New(func(c *Config) error {
		switch enc {
		case format.TypeRaw, format.TypeDelta:
			c.intEncoding = enc
			return nil
		default:
			return fmt.Errorf("invalid int array encoding: %v", enc)
		}
	})
}

// WithFloatArrayEncoding selects raw or Gorilla encoding for Float64Array
// values. Gorilla shrinks smooth or repetitive series; random data is better
// left raw.
func WithFloatArrayEncoding(enc format.EncodingType) Option {
	return options.New(func(c *Config) error {
		switch enc {
		case format.TypeRaw, format.TypeGorilla:
			c.floatEncoding = enc
			return nil
		default:
			return fmt.Errorf("invalid float array encoding: %v", enc)
		}
	})
}

// WithLittleEndian stores fixed-width words little-endian. This is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *Config) {
		c.bigEndian = false
	})
}

// WithBigEndian stores fixed-width words big-endian.
func WithBigEndian() Option {
	return options.NoError(func(c *Config) {
		c.bigEndian = true
	})
}

// WithMaxArrayLength caps the element count of array values accepted by Write.
func WithMaxArrayLength(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 || n > DefaultMaxArrayLength {
			return fmt.Errorf("max array length %d out of range [0, %d]", n, DefaultMaxArrayLength)
		}
		c.maxArrayLength = n

		return nil
	})
}

// Compression returns the payload compression.
func (c Config) Compression() format.CompressionType { return c.compression }

// IntArrayEncoding returns the Int64Array encoding.
func (c Config) IntArrayEncoding() format.EncodingType { return c.intEncoding }

// FloatArrayEncoding returns the Float64Array encoding.
func (c Config) FloatArrayEncoding() format.EncodingType { return c.floatEncoding }

// IsBigEndian reports whether words are stored big-endian.
func (c Config) IsBigEndian() bool { return c.bigEndian }

// MaxArrayLength returns the array length limit.
func (c Config) MaxArrayLength() int { return c.maxArrayLength }

func (c Config) engine() endian.EndianEngine {
	if c.bigEndian {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}
