// File: lixenwraith/iniconf/doc.go

// Package config provides thread-safe INI configuration management for Go applications
// with typed value access, descriptor-mapped section types and comment-preserving writes.
//
// Features:
//   - Lenient line parser: comments, [section] headers and key = value pairs; malformed lines are dropped
//   - Case-insensitive sections and keys; the last written pair and casing win
//   - Position-ordered document model that keeps comments across parse/write cycles
//   - Culture-aware conversion for bool, int, decimal, float64, enums and nullable forms
//   - Section types mapped by explicit descriptors, no struct tag reflection per field
//   - Thread-safe operations using sync.RWMutex
//   - Builder pattern with XDG file discovery and validators
//   - Scan into tagged structs, export to and import from TOML, JSON and YAML
//
// Quick Start:
//
//	type Mailer struct {
//	    Sender string
//	    Port   int
//	    TLS    *bool
//	}
//
//	var mailer = config.MustRegister(config.MustDescribe("mailer",
//	    config.Bind("Sender", func(m *Mailer) *string { return &m.Sender }, config.WithDefault("MailKit")),
//	    config.Bind("Port", func(m *Mailer) *int { return &m.Port }, config.WithDefault(25)),
//	    config.Bind("TLS", func(m *Mailer) **bool { return &m.TLS }, config.WithKey("use_tls")),
//	))
//
//	cfg, err := config.Quick("mail.ini")
//	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
//	    log.Fatal(err)
//	}
//
//	m, _ := config.GetSection[Mailer](cfg)
//	port, _ := config.Get[int](cfg, "mailer", "port")
//
//	m.Port = 587
//	_ = config.SetSection(cfg, &m)
//	_ = cfg.Save()
//
// File grammar:
//
//	; standalone comment
//	key before any header = goes to the default section
//	[section name] ; header comment
//	key = value ; trailing comment
//
// Values run up to the first ';' and cannot contain one. Lines are split on
// line feeds; a trailing carriage return is trimmed with the rest of the field.
//
// Thread Safety:
// All Config operations are thread-safe. Instances bound to the same file do
// not coordinate; the last writer wins.
package config
