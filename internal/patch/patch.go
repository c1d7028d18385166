package patch

import (
	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
	"github.com/wboxxx/magicstomp-autotune/internal/codec"
)

// Patch is the in-memory form of a Magicstomp patch: a 32-byte common
// section and an up-to-96-byte effect section, plus the resolved schema
// for common[0]'s effect-type code (spec.md §3).
type Patch struct {
	common [codec.PatchCommonLength]byte
	effect []byte

	effectType *EffectType // nil => Unsupported
}

// FromBytes builds a Patch from raw common/effect bytes, resolving the
// effect type from common[0]. An unrecognized effect-type code yields a
// Patch with no schema (IsUnsupported() == true): Get/Set on symbolic keys
// fail with NoSuchParameter, but Snapshot/byte access still work.
func FromBytes(common [codec.PatchCommonLength]byte, effect []byte) *Patch {
	eff := make([]byte, codec.PatchEffectMaxLength)
	copy(eff, effect)

	p := &Patch{common: common, effect: eff}
	p.effectType = Lookup(common[0])
	return p
}

// NewDefault creates a patch for the given effect-type code, with every
// schema parameter set to its declared default and the name set to
// "Init Patch".
func NewDefault(effectTypeCode byte) (*Patch, error) {
	et := Lookup(effectTypeCode)
	if et == nil {
		return nil, apperr.Newf(apperr.KindNoSuchParameter, "patch.NewDefault", "unknown effect-type code 0x%02X", effectTypeCode)
	}
	var common [codec.PatchCommonLength]byte
	common[0] = effectTypeCode
	p := &Patch{common: common, effect: make([]byte, codec.PatchEffectMaxLength), effectType: et}
	for _, param := range et.Parameters {
		_, _ = p.Set(param.Key, param.Default)
	}
	p.Rename("Init Patch")
	return p, nil
}

// IsUnsupported reports whether the patch's effect-type code has no
// registered schema.
func (p *Patch) IsUnsupported() bool { return p.effectType == nil }

// EffectTypeCode returns the raw effect-type code at common[0].
func (p *Patch) EffectTypeCode() byte { return p.common[0] }

// EffectTypeName returns the effect type's canonical name, or
// "Unsupported" if the code has no schema.
func (p *Patch) EffectTypeName() string {
	if p.effectType == nil {
		return "Unsupported"
	}
	return p.effectType.Name
}

// Name returns the patch's name, per codec.ExtractName.
func (p *Patch) Name() string {
	name, err := codec.ExtractName(p.common[:])
	if err != nil {
		return "Magicstomp Patch"
	}
	return name
}

// Rename writes name into common[16:28], ASCII-filtered and
// space-padded, per codec.EncodeName.
func (p *Patch) Rename(name string) {
	encoded := codec.EncodeName(name)
	copy(p.common[16:28], encoded[:])
}

// Get decodes the current value of a schema parameter.
func (p *Patch) Get(key string) (float64, error) {
	param, ok := p.findParam(key)
	if !ok {
		return 0, apperr.Newf(apperr.KindNoSuchParameter, "patch.Get", "no such parameter %q for effect type %s", key, p.EffectTypeName())
	}
	return param.Decode(p.effect[param.Offset : param.Offset+param.Length]), nil
}

// Set encodes value into the parameter's raw bytes, silently clamping to
// the parameter's range and step grid, and returns the value actually
// stored (post-clamp, post-quantization).
func (p *Patch) Set(key string, value float64) (float64, error) {
	param, ok := p.findParam(key)
	if !ok {
		return 0, apperr.Newf(apperr.KindNoSuchParameter, "patch.Set", "no such parameter %q for effect type %s", key, p.EffectTypeName())
	}
	raw, stored := param.Encode(value)
	copy(p.effect[param.Offset:param.Offset+param.Length], raw)
	return stored, nil
}

// ParameterKeys lists every key in this patch's schema, in declaration
// order. optimizer.Space does not keep this order: it visits parameters
// sorted by name.
func (p *Patch) ParameterKeys() []string {
	if p.effectType == nil {
		return nil
	}
	keys := make([]string, len(p.effectType.Parameters))
	for i, param := range p.effectType.Parameters {
		keys[i] = param.Key
	}
	return keys
}

// ParameterDescriptor exposes the full schema Parameter for a key, for
// callers (the optimizer, the CLI) that need bounds/step/unit, not just
// the current value.
func (p *Patch) ParameterDescriptor(key string) (Parameter, bool) {
	return p.findParam(key)
}

func (p *Patch) findParam(key string) (Parameter, bool) {
	if p.effectType == nil {
		return Parameter{}, false
	}
	return p.effectType.ByKey(key)
}

// Snapshot returns a copy of the patch's raw bytes: the 32-byte common
// section and the 96-byte effect section.
func (p *Patch) Snapshot() (common [codec.PatchCommonLength]byte, effect []byte) {
	effect = make([]byte, len(p.effect))
	copy(effect, p.effect)
	return p.common, effect
}

// ByteDiff is one changed byte between two patch snapshots, at an
// absolute patch offset (0..127, common followed by effect).
type ByteDiff struct {
	Offset   int
	Old, New byte
}

// Diff returns the minimal set of changed bytes between p and other,
// addressed as absolute patch offsets, used by DeviceLink to send only
// what changed rather than a full patch (spec.md §4.2/§4.7/§9).
func (p *Patch) Diff(other *Patch) []ByteDiff {
	var diffs []ByteDiff
	for i := 0; i < codec.PatchCommonLength; i++ {
		if p.common[i] != other.common[i] {
			diffs = append(diffs, ByteDiff{Offset: i, Old: p.common[i], New: other.common[i]})
		}
	}
	n := len(p.effect)
	if len(other.effect) < n {
		n = len(other.effect)
	}
	for i := 0; i < n; i++ {
		if p.effect[i] != other.effect[i] {
			diffs = append(diffs, ByteDiff{Offset: codec.PatchCommonLength + i, Old: p.effect[i], New: other.effect[i]})
		}
	}
	return diffs
}

// Clone returns a deep copy of p.
func (p *Patch) Clone() *Patch {
	common, effect := p.Snapshot()
	return &Patch{common: common, effect: effect, effectType: p.effectType}
}

// ParametersSnapshot returns a name->value map of every schema parameter's
// current value, used by the Conductor/Optimizer to seed a ParameterSpace.
func (p *Patch) ParametersSnapshot() map[string]float64 {
	out := map[string]float64{}
	if p.effectType == nil {
		return out
	}
	for _, param := range p.effectType.Parameters {
		v, _ := p.Get(param.Key)
		out[param.Key] = v
	}
	return out
}

// ApplyParameters sets every key/value pair, ignoring unknown keys (used
// when applying an optimizer's proposed ParameterSpace back onto a patch
// that may use only a subset of the schema).
func (p *Patch) ApplyParameters(values map[string]float64) {
	for key, v := range values {
		_, _ = p.Set(key, v)
	}
}
