// Package composer ties the token-template engine together into one editable
// prompt instance: a mode selector (free text, preset, or token stack), the
// shared validate/preview pipeline, and debounced preview refresh. Every
// rendered editor owns exactly one Composer; instances share no state.
package composer

import (
	"time"

	"github.com/promptloom/promptloom/errors"
	"github.com/promptloom/promptloom/prompt"
	"github.com/promptloom/promptloom/stack"
)

// Mode selects which source the composed prompt is generated from.
type Mode string

const (
	ModeCustom Mode = "custom"
	ModePreset Mode = "preset"
	ModeTokens Mode = "tokens"
)

// Config is the persisted configuration shape handed to the external
// persistence layer. It carries all three sources so switching modes is
// lossless.
type Config struct {
	Mode         Mode          `json:"mode"`
	CustomPrompt string        `json:"custom_prompt"`
	PresetName   string        `json:"preset_name,omitempty"`
	Tokens       []*stack.Item `json:"tokens"`
}

// Snapshot is the onChange/getValue payload: the configuration plus the
// prompt text it currently generates.
type Snapshot struct {
	Config
	GeneratedPrompt string `json:"generated_prompt"`
}

// PreviewResult is the outcome of one preview refresh.
type PreviewResult struct {
	Text   string                   `json:"text"`
	Report *prompt.ValidationReport `json:"report"`
}

// Composer is one prompt-editor instance. All operations run to completion
// synchronously; the only deferred behavior is the debounced preview refresh.
type Composer struct {
	registry prompt.Registry
	resolver *prompt.Resolver

	mode         Mode
	customPrompt string
	presetName   string
	tokens       *stack.Stack

	presets     map[string]string
	previewCtx  *prompt.PreviewContext
	resolveOpts prompt.ResolveOptions

	onChange  func(Snapshot)
	onPreview func(PreviewResult)
	debouncer *Debouncer
}

// Option configures a Composer.
type Option func(*Composer)

// WithPresets merges extra presets over the built-in catalog.
func WithPresets(presets map[string]string) Option {
	return func(c *Composer) {
		for name, text := range presets {
			c.presets[name] = text
		}
	}
}

// WithDebounce overrides the preview quiet window.
func WithDebounce(d time.Duration) Option {
	return func(c *Composer) {
		c.debouncer = NewDebouncer(d)
	}
}

// WithResolveOptions overrides the preview resolution options.
func WithResolveOptions(opts prompt.ResolveOptions) Option {
	return func(c *Composer) {
		c.resolveOpts = opts
	}
}

// New creates a Composer in tokens mode with an empty stack.
func New(registry prompt.Registry, opts ...Option) *Composer {
	c := &Composer{
		registry:   registry,
		resolver:   prompt.NewResolver(registry),
		mode:       ModeTokens,
		tokens:     stack.New(),
		presets:    make(map[string]string, len(builtinPresets)),
		previewCtx: prompt.NewPreviewContext(),
		resolveOpts: prompt.ResolveOptions{
			PreserveUnresolved: true,
			PassThroughNative:  true,
		},
		debouncer: NewDebouncer(DefaultPreviewDebounce),
	}
	for name, text := range builtinPresets {
		c.presets[name] = text
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers the mutation callback. It fires after every mutation
// with the same shape GetValue returns.
func (c *Composer) OnChange(fn func(Snapshot)) {
	c.onChange = fn
}

// OnPreview registers the preview callback, fired after the debounce window
// or an explicit Refresh.
func (c *Composer) OnPreview(fn func(PreviewResult)) {
	c.onPreview = fn
}

// Mode returns the current mode.
func (c *Composer) Mode() Mode {
	return c.mode
}

// SetMode switches the prompt source. The other sources are retained.
func (c *Composer) SetMode(mode Mode) {
	c.mode = mode
	c.notify()
	c.schedulePreview()
}

// SetCustomPrompt updates the free-text prompt. The preview refresh is
// debounced; a newer edit within the quiet window wins.
func (c *Composer) SetCustomPrompt(text string) {
	c.customPrompt = text
	c.notify()
	c.schedulePreview()
}

// SetPreset selects a preset by name.
func (c *Composer) SetPreset(name string) error {
	if _, ok := c.presets[name]; !ok {
		return errors.NewNotFoundError("preset %q", name)
	}
	c.presetName = name
	c.notify()
	c.schedulePreview()
	return nil
}

// Stack mutations. Each commits synchronously, fires onChange, and schedules
// a preview refresh.

// AppendToken pushes an item to the end of the stack.
func (c *Composer) AppendToken(item *stack.Item) {
	c.tokens.Append(item)
	c.notify()
	c.schedulePreview()
}

// InsertTokenAt inserts an item at index.
func (c *Composer) InsertTokenAt(item *stack.Item, index int) error {
	if err := c.tokens.InsertAt(item, index); err != nil {
		return err
	}
	c.notify()
	c.schedulePreview()
	return nil
}

// RemoveTokenAt removes the item at index.
func (c *Composer) RemoveTokenAt(index int) error {
	if _, err := c.tokens.RemoveAt(index); err != nil {
		return err
	}
	c.notify()
	c.schedulePreview()
	return nil
}

// MoveToken reorders the stack.
func (c *Composer) MoveToken(from, to int) error {
	if err := c.tokens.MoveItem(from, to); err != nil {
		return err
	}
	c.notify()
	c.schedulePreview()
	return nil
}

// UpdateToken edits the item at index in place.
func (c *Composer) UpdateToken(index int, edit stack.ItemEdit) error {
	if err := c.tokens.UpdateItem(index, edit); err != nil {
		return err
	}
	c.notify()
	c.schedulePreview()
	return nil
}

// DragSession wraps a stack gesture so a committed drop notifies the
// composer's listeners.
type DragSession struct {
	gesture  *stack.Gesture
	composer *Composer
}

// DragFromPalette starts a copy-semantics drag from a palette prototype.
func (c *Composer) DragFromPalette(prototype *stack.Item) *DragSession {
	return &DragSession{gesture: stack.BeginPaletteDrag(c.tokens, prototype), composer: c}
}

// DragToken starts a move-semantics drag of an existing stack entry.
func (c *Composer) DragToken(index int) (*DragSession, error) {
	g, err := stack.BeginItemDrag(c.tokens, index)
	if err != nil {
		return nil, err
	}
	return &DragSession{gesture: g, composer: c}, nil
}

// HoverOver forwards pointer geometry to the gesture.
func (d *DragSession) HoverOver(index int, pointerY, itemTop, itemHeight float64) error {
	return d.gesture.HoverOver(index, pointerY, itemTop, itemHeight)
}

// Drop commits the gesture's single mutation and notifies.
func (d *DragSession) Drop() error {
	if err := d.gesture.Drop(); err != nil {
		return err
	}
	d.composer.notify()
	d.composer.schedulePreview()
	return nil
}

// DropAtEnd commits an append past the last item and notifies.
func (d *DragSession) DropAtEnd() error {
	if err := d.gesture.DropAtEnd(); err != nil {
		return err
	}
	d.composer.notify()
	d.composer.schedulePreview()
	return nil
}

// Cancel ends the gesture with no mutation and no notification.
func (d *DragSession) Cancel() {
	d.gesture.Cancel()
}

// GeneratedPrompt returns the flat template for the current mode: the custom
// text, the selected preset's template, or the composed token stack.
func (c *Composer) GeneratedPrompt() string {
	switch c.mode {
	case ModeCustom:
		return c.customPrompt
	case ModePreset:
		return c.presets[c.presetName]
	default:
		return c.tokens.Compose()
	}
}

// Validate runs the generated prompt through the validator.
func (c *Composer) Validate() *prompt.ValidationReport {
	return prompt.Validate(c.GeneratedPrompt(), c.registry)
}

// Preview resolves the generated prompt synchronously.
func (c *Composer) Preview() PreviewResult {
	text, report := c.resolver.Preview(c.GeneratedPrompt(), c.previewCtx, c.resolveOpts)
	return PreviewResult{Text: text, Report: report}
}

// Refresh recomputes the preview immediately, bypassing the debounce window.
func (c *Composer) Refresh() {
	if c.onPreview != nil {
		c.onPreview(c.Preview())
	}
}

// GetValue returns the persisted configuration shape plus the generated
// prompt. Token items are deep copies.
func (c *Composer) GetValue() Snapshot {
	return Snapshot{
		Config: Config{
			Mode:         c.mode,
			CustomPrompt: c.customPrompt,
			PresetName:   c.presetName,
			Tokens:       c.tokens.Items(),
		},
		GeneratedPrompt: c.GeneratedPrompt(),
	}
}

// SetValue replaces the instance state from a saved configuration. Token
// items are deep-copied in; the caller's slice stays untouched.
func (c *Composer) SetValue(cfg Config) {
	if cfg.Mode != "" {
		c.mode = cfg.Mode
	}
	c.customPrompt = cfg.CustomPrompt
	c.presetName = cfg.PresetName
	c.tokens.SetItems(cfg.Tokens)
	c.notify()
	c.schedulePreview()
}

// Destroy cancels any pending preview refresh. The instance must not be used
// afterwards.
func (c *Composer) Destroy() {
	c.debouncer.Stop()
}

func (c *Composer) notify() {
	if c.onChange != nil {
		c.onChange(c.GetValue())
	}
}

func (c *Composer) schedulePreview() {
	if c.onPreview == nil {
		return
	}
	c.debouncer.Trigger(func() {
		c.onPreview(c.Preview())
	})
}
