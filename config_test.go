// FILE: lixenwraith/iniconf/config_test.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleINI = `; sample configuration
Key1 = value1
Key2 = 12
Key3 = another 3
key4 = 4

[mailer] ; plugin selection
sender = MailKit ; outgoing plugin
reader = builtin
this line is malformed

[Another Section]
position = 2.3
hello = world
foo = bar
KEY1 = shadowed
key1 = last
`

// writeSample writes content to a fresh file in a temp directory
func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// loadSample returns a Config parsed from sampleINI and bound to a temp file
func loadSample(t *testing.T) *Config {
	t.Helper()
	cfg := New()
	require.NoError(t, cfg.ParseFile(writeSample(t, sampleINI)))
	return cfg
}

// TestConfigCreation tests construction and option validation
func TestConfigCreation(t *testing.T) {
	t.Run("NewWithDefaultOptions", func(t *testing.T) {
		cfg := New()
		require.NotNil(t, cfg)
		assert.Equal(t, DefaultSectionName, cfg.DefaultSection())
		assert.Equal(t, InvariantCulture, cfg.Culture())
		assert.Empty(t, cfg.Sections())
		assert.Equal(t, "", cfg.Path())
	})

	t.Run("NewWithCustomOptions", func(t *testing.T) {
		cfg, err := NewWithOptions(Options{
			Path:           " app.ini ",
			DefaultSection: "Root",
			CultureTag:     "de-DE",
		})
		require.NoError(t, err)
		assert.Equal(t, "app.ini", cfg.Path())
		assert.Equal(t, "Root", cfg.DefaultSection())
		assert.Equal(t, ",", cfg.Culture().DecimalSeparator)
	})

	tests := []struct {
		name     string
		opts     Options
		expected error
	}{
		{"MultiWordDefaultSection", Options{DefaultSection: "two words"}, ErrInvalidArgument},
		{"PunctuatedDefaultSection", Options{DefaultSection: "a.b"}, ErrInvalidArgument},
		{"UnknownCulture", Options{CultureTag: "not a culture!"}, ErrUnknownCulture},
		{"NegativeMaxFileSize", Options{MaxFileSize: -1}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithOptions(tt.opts)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

// TestConfigParse tests file and in-memory parsing
func TestConfigParse(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		cfg := loadSample(t)

		assert.Equal(t, []string{"General", "mailer", "Another Section"}, cfg.Sections())
		assert.Equal(t, []string{"Key1", "Key2", "Key3", "key4"}, cfg.Keys("general"))
		assert.Nil(t, cfg.Keys("missing"))
		assert.Equal(t, []int{10}, cfg.Document().DroppedLines())

		v, ok := cfg.Value("MAILER", "Sender")
		assert.True(t, ok)
		assert.Equal(t, "MailKit", v)

		v, ok = cfg.Value("another section", "Key1")
		assert.True(t, ok)
		assert.Equal(t, "last", v)

		assert.True(t, cfg.Has("General", "KEY3"))
		assert.False(t, cfg.Has("General", "Key5"))
		assert.False(t, cfg.Has("nowhere", "Key1"))
	})

	t.Run("MissingFile", func(t *testing.T) {
		cfg := New()
		require.NoError(t, cfg.ParseString("a = 1"))

		path := filepath.Join(t.TempDir(), "absent.ini")
		err := cfg.ParseFile(path)
		assert.ErrorIs(t, err, ErrConfigNotFound)
		assert.Equal(t, path, cfg.Path())
		assert.Empty(t, cfg.Sections(), "previous document is replaced")
	})

	t.Run("NoBoundPath", func(t *testing.T) {
		assert.ErrorIs(t, New().Parse(), ErrInvalidArgument)
		assert.ErrorIs(t, New().ParseFile("  "), ErrInvalidArgument)
	})

	t.Run("Directory", func(t *testing.T) {
		assert.ErrorIs(t, New().ParseFile(t.TempDir()), ErrInvalidArgument)
	})

	t.Run("Reparse", func(t *testing.T) {
		cfg := loadSample(t)
		require.NoError(t, cfg.Set("General", "Key1", "changed"))
		require.NoError(t, cfg.Parse())
		v, _ := cfg.Value("General", "Key1")
		assert.Equal(t, "value1", v)
	})

	t.Run("StringAndLines", func(t *testing.T) {
		cfg := New()
		require.NoError(t, cfg.ParseString("k = v\r\n[s]\r\nx = 1\r\n"))
		assert.Equal(t, []string{"General", "s"}, cfg.Sections())
		v, _ := cfg.Value("s", "x")
		assert.Equal(t, "1", v)

		require.NoError(t, cfg.ParseString(""))
		assert.Empty(t, cfg.Sections())

		require.NoError(t, cfg.ParseLines([]string{"[only]", "k = v"}))
		assert.Equal(t, []string{"only"}, cfg.Sections())
		assert.ErrorIs(t, cfg.ParseLines(nil), ErrInvalidArgument)
		assert.ErrorIs(t, cfg.ParseReader(nil), ErrInvalidArgument)
	})

	t.Run("CustomDefaultSection", func(t *testing.T) {
		cfg, err := NewWithOptions(Options{DefaultSection: "Root"})
		require.NoError(t, err)
		require.NoError(t, cfg.ParseString("k = v"))
		assert.Equal(t, []string{"Root"}, cfg.Sections())
		v, err := GetKey[string](cfg, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})
}

// TestMaxFileSize tests the read cap for files and readers
func TestMaxFileSize(t *testing.T) {
	cfg, err := NewWithOptions(Options{MaxFileSize: 6})
	require.NoError(t, err)

	err = cfg.ParseFile(writeSample(t, sampleINI))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum size")

	require.NoError(t, cfg.ParseReader(strings.NewReader("a = 1\n")))
	assert.Equal(t, []string{"a"}, cfg.Keys("General"))

	err = cfg.ParseReader(strings.NewReader("a = 123456\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum size")
	v, err := Get[int](cfg, "General", "a")
	require.NoError(t, err)
	assert.Equal(t, 1, v, "oversized input leaves the document untouched")
}

// TestConfigSet tests writes through the facade
func TestConfigSet(t *testing.T) {
	t.Run("CreatesSectionAndPair", func(t *testing.T) {
		cfg := New()
		require.NoError(t, cfg.Set("new", "k", 5, "note"))
		require.NoError(t, cfg.Set("new", "flag", true))
		require.NoError(t, cfg.Set("new", "ratio", decimal.RequireFromString("0.25")))
		require.NoError(t, cfg.Set("new", "empty", ""))

		assert.Equal(t, "[new]\nk = 5 ; note\nflag = true\nratio = 0.25\nempty =\n\n", cfg.String())
	})

	t.Run("UpdatesInPlace", func(t *testing.T) {
		cfg := loadSample(t)
		require.NoError(t, cfg.Set("MAILER", "SENDER", "SmtpClient"))

		doc := cfg.Document()
		s, ok := doc.Section("mailer")
		require.True(t, ok)
		assert.Equal(t, "mailer", s.Name())
		assert.Equal(t, []string{"SENDER", "reader"}, s.Keys())
		p, _ := s.Pair("sender")
		assert.Equal(t, "SmtpClient", p.Value())
		assert.Equal(t, "outgoing plugin", p.Comment())
		assert.Equal(t, 8, p.Position())
	})

	t.Run("SetKey", func(t *testing.T) {
		cfg := loadSample(t)
		require.NoError(t, cfg.SetKey("key1", "changed"))
		v, _ := cfg.Value("General", "Key1")
		assert.Equal(t, "changed", v)
	})

	tests := []struct {
		name     string
		section  string
		key      string
		value    any
		expected error
	}{
		{"EmptySection", "", "k", "v", ErrInvalidArgument},
		{"EmptyKey", "s", " ", "v", ErrInvalidArgument},
		{"NilValue", "s", "k", nil, ErrInvalidArgument},
		{"SemicolonInValue", "s", "k", "a;b", ErrInvalidArgument},
		{"NewlineInValue", "s", "k", "a\nb", ErrInvalidArgument},
		{"BadSectionName", "s]", "k", "v", ErrInvalidArgument},
		{"BadKey", "s", "k=k", "v", ErrInvalidArgument},
		{"UnsupportedType", "s", "k", time.Second, ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			err := cfg.Set(tt.section, tt.key, tt.value)
			assert.ErrorIs(t, err, tt.expected)
			assert.Empty(t, cfg.Sections(), "document must be untouched")
		})
	}

	t.Run("MultilineComment", func(t *testing.T) {
		cfg := New()
		assert.ErrorIs(t, cfg.Set("s", "k", "v", "a\nb"), ErrInvalidArgument)
	})

	t.Run("Culture", func(t *testing.T) {
		cfg, err := NewWithOptions(Options{CultureTag: "de-DE"})
		require.NoError(t, err)
		require.NoError(t, cfg.Set("numbers", "ratio", 2.5))

		v, _ := cfg.Value("numbers", "ratio")
		assert.Equal(t, "2,5", v)

		got, err := Get[float64](cfg, "numbers", "ratio")
		require.NoError(t, err)
		assert.Equal(t, 2.5, got)
	})
}

// TestConfigUnset tests pair removal
func TestConfigUnset(t *testing.T) {
	cfg := loadSample(t)

	assert.True(t, cfg.Unset("mailer", "READER"))
	assert.False(t, cfg.Unset("mailer", "reader"))
	assert.False(t, cfg.Unset("missing", "reader"))
	assert.Equal(t, []string{"sender"}, cfg.Keys("mailer"))
	assert.NotContains(t, cfg.String(), "builtin")
}

// TestConfigWrite tests file output modes
func TestConfigWrite(t *testing.T) {
	t.Run("ExclusiveThenOverwrite", func(t *testing.T) {
		cfg := loadSample(t)
		path := filepath.Join(t.TempDir(), "nested", "out.ini")

		require.NoError(t, cfg.Write(path, false))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, cfg.String(), string(data))

		err = cfg.Write(path, false)
		assert.ErrorIs(t, err, ErrWrite)
		assert.ErrorIs(t, err, ErrFileExists)

		require.NoError(t, cfg.Set("General", "Key1", "rewritten"))
		require.NoError(t, cfg.Write(path, true))
		data, err = os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Key1 = rewritten\n")

		matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, matches, "temporary files are cleaned up")
	})

	t.Run("SaveToBoundPath", func(t *testing.T) {
		cfg := loadSample(t)
		require.NoError(t, cfg.Set("mailer", "sender", "Other"))
		require.NoError(t, cfg.Save())

		reloaded := New()
		require.NoError(t, reloaded.ParseFile(cfg.Path()))
		assert.Equal(t, cfg.String(), reloaded.String())
	})

	t.Run("EmptyDocumentTruncates", func(t *testing.T) {
		path := writeSample(t, sampleINI)
		require.NoError(t, New().Write(path, true))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("NoPath", func(t *testing.T) {
		assert.ErrorIs(t, New().Save(), ErrInvalidArgument)
		assert.ErrorIs(t, New().Write(" ", true), ErrInvalidArgument)
	})

	t.Run("DumpIsStable", func(t *testing.T) {
		cfg := loadSample(t)
		first := cfg.String()

		path := filepath.Join(t.TempDir(), "dump.ini")
		require.NoError(t, cfg.Write(path, true))

		reloaded := New()
		require.NoError(t, reloaded.ParseFile(path))
		assert.Equal(t, first, reloaded.String())
		assert.Empty(t, reloaded.Document().DroppedLines())
	})

	t.Run("WriteTo", func(t *testing.T) {
		cfg := loadSample(t)
		var sb strings.Builder
		n, err := cfg.WriteTo(&sb)
		require.NoError(t, err)
		assert.Equal(t, int64(sb.Len()), n)
		assert.Equal(t, cfg.String(), sb.String())
	})
}

// TestTypedAccess tests generic reads
func TestTypedAccess(t *testing.T) {
	cfg := loadSample(t)

	t.Run("Get", func(t *testing.T) {
		n, err := Get[int](cfg, "General", "Key2")
		require.NoError(t, err)
		assert.Equal(t, 12, n)

		p, err := Get[*int](cfg, "General", "key4")
		require.NoError(t, err)
		assert.Equal(t, Ptr(4), p)

		missing, err := Get[*int](cfg, "General", "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)

		b, err := Get[bool](cfg, "General", "Key1")
		require.NoError(t, err)
		assert.False(t, b, "unparsable non-nullable yields zero")

		d, err := Get[decimal.Decimal](cfg, "Another Section", "position")
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.RequireFromString("2.3")))

		s, err := GetKey[string](cfg, "key3")
		require.NoError(t, err)
		assert.Equal(t, "another 3", s)
	})

	t.Run("GetOr", func(t *testing.T) {
		n, err := GetOr(cfg, "General", "missing", 7)
		require.NoError(t, err)
		assert.Equal(t, 7, n)

		f, err := GetOr(cfg, "another section", "position", 0.0)
		require.NoError(t, err)
		assert.Equal(t, 2.3, f)

		s, err := GetOr(cfg, "mailer", "missing", "fallback")
		require.NoError(t, err)
		assert.Equal(t, "fallback", s)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := Get[time.Time](cfg, "General", "Key1")
		assert.ErrorIs(t, err, ErrUnsupportedType)

		_, err = Get[time.Duration](cfg, "General", "absent")
		assert.ErrorIs(t, err, ErrUnsupportedType)

		_, err = Get[string](cfg, "General", "")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Enums", func(t *testing.T) {
		require.NoError(t, SetEnum(cfg, testNumbers, "numbers", "pick", numberTwo, "chosen"))
		v, _ := cfg.Value("numbers", "pick")
		assert.Equal(t, "Two", v)

		got, err := GetEnum(cfg, testNumbers, "numbers", "pick")
		require.NoError(t, err)
		assert.Equal(t, numberTwo, got)

		none, err := GetNullableEnum(cfg, testNumbers, "numbers", "absent")
		require.NoError(t, err)
		assert.Nil(t, none)

		require.NoError(t, cfg.Set("numbers", "bad", "eleven"))
		zero, err := GetEnum(cfg, testNumbers, "numbers", "bad")
		require.NoError(t, err)
		assert.Equal(t, numberZero, zero)

		_, err = GetEnum[testNumber](cfg, nil, "numbers", "pick")
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.ErrorIs(t, SetEnum[testNumber](cfg, nil, "numbers", "pick", numberOne), ErrInvalidArgument)
	})
}

type unregisteredSection struct {
	Name string
}

// TestSectionAccess tests registry-backed section mapping
func TestSectionAccess(t *testing.T) {
	MustRegister(libraryDescriptor)
	MustRegister(metadataDescriptor)

	t.Run("Registry", func(t *testing.T) {
		d, err := Lookup[librarySection]()
		require.NoError(t, err)
		assert.Same(t, libraryDescriptor, d)

		_, err = Lookup[unregisteredSection]()
		assert.ErrorIs(t, err, ErrNotRegistered)

		assert.ErrorIs(t, Register[unregisteredSection](nil), ErrInvalidArgument)
		assert.Panics(t, func() { MustRegister[unregisteredSection](nil) })
	})

	t.Run("GetSection", func(t *testing.T) {
		cfg := loadSample(t)

		l, err := GetSection[librarySection](cfg)
		require.NoError(t, err)
		assert.Equal(t, "MailKit", l.Sender)

		m, err := GetSection[metadataSection](cfg)
		require.NoError(t, err)
		assert.Equal(t, 2.3, m.Position)

		_, err = GetSection[unregisteredSection](cfg)
		assert.ErrorIs(t, err, ErrNotRegistered)
	})

	t.Run("SetSection", func(t *testing.T) {
		cfg := loadSample(t)

		var l librarySection
		require.NoError(t, SetDefault(&l))
		assert.Equal(t, "default", l.Sender)
		l.Reader = "imap"
		require.NoError(t, SetSection(cfg, &l))

		snapshot, err := GetSection[librarySection](cfg)
		require.NoError(t, err)
		assert.Equal(t, l, snapshot)

		snapshot.Sender = "not written"
		v, _ := cfg.Value("mailer", "sender")
		assert.Equal(t, "default", v, "snapshots do not write through")

		assert.ErrorIs(t, SetSection(cfg, &unregisteredSection{}), ErrNotRegistered)
		assert.ErrorIs(t, SetDefault(&unregisteredSection{}), ErrNotRegistered)
	})

	t.Run("ExplicitDescriptor", func(t *testing.T) {
		cfg := New()
		n := numberSection{Required: numberOne}
		require.NoError(t, WriteSection(cfg, numberDescriptor, &n))
		got := ReadSection(cfg, numberDescriptor)
		assert.Equal(t, numberOne, got.Required)
		assert.Nil(t, got.Optional)
		require.NotNil(t, got.Fallback)
		assert.Equal(t, numberTwo, *got.Fallback, "empty value falls back to the default")
	})

	t.Run("UndeclaredEnumSurvivesReparse", func(t *testing.T) {
		cfg := New()
		n := numberSection{Required: testNumber(9), Optional: Ptr(testNumber(-4))}
		require.NoError(t, WriteSection(cfg, numberDescriptor, &n))

		reparsed := New()
		require.NoError(t, reparsed.ParseString(cfg.String()))
		got := ReadSection(reparsed, numberDescriptor)
		assert.Equal(t, testNumber(9), got.Required)
		require.NotNil(t, got.Optional)
		assert.Equal(t, testNumber(-4), *got.Optional)
	})
}

// TestConcurrentAccess tests thread safety
func TestConcurrentAccess(t *testing.T) {
	cfg := loadSample(t)

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if err := cfg.Set("load", fmt.Sprintf("key%d", i%5), i); err != nil {
				errs <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := Get[int](cfg, "General", "Key2"); err != nil {
				errs <- err
			}
			_ = cfg.String()
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent access error: %v", err)
	}
	assert.Len(t, cfg.Keys("load"), 5)
}
