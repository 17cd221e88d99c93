package domain

// Configuration keys read from the recipe environment.
const (
	KeyLibMapnikCXXFlags = "LIBMAPNIK_CXXFLAGS"
	KeyLibMapnikDefines  = "LIBMAPNIK_DEFINES"
	KeyLibMapnikLibs     = "LIBMAPNIK_LIBS"
	KeyMapnikName        = "MAPNIK_NAME"
	KeyMapnikLibName     = "MAPNIK_LIB_NAME"
	KeyBoostAppend       = "BOOST_APPEND"
	KeyRuntimeLink       = "RUNTIME_LINK"
	KeyPlatform          = "PLATFORM"
	KeyHasCairo          = "HAS_CAIRO"
	KeyCairoCPPPaths     = "CAIRO_CPPPATHS"
	KeyInstallPrefix     = "INSTALL_PREFIX"
	KeyOptionParserLib   = "OPTION_PARSER_LIB"
	KeyDLPlatform        = "DL_PLATFORM"
	KeyDLLib             = "DL_LIB"
)

// Defaults applied when the optional keys are absent.
const (
	DefaultCXX             = "c++"
	DefaultOptionParserLib = "boost_program_options"
	DefaultDLPlatform      = "Linux"
	DefaultDLLib           = "dl"
	CairoDefine            = "HAVE_CAIRO"
)

// LinkMode selects how the runtime dependencies are linked.
type LinkMode string

const (
	// LinkStatic links dependencies statically.
	LinkStatic LinkMode = "static"
	// LinkShared links dependencies as shared objects.
	LinkShared LinkMode = "shared"
)

// Settings is the validated, typed view of the recipe environment.
type Settings struct {
	LibMapnikCXXFlags []string
	LibMapnikDefines  []string
	LibMapnikLibs     []string
	MapnikName        string
	MapnikLibName     string
	BoostAppend       string
	RuntimeLink       LinkMode
	Platform          string
	HasCairo          bool
	CairoCPPPaths     []string
	InstallPrefix     string
	CXX               string
	OptionParserLib   string
	DLPlatform        string
	DLLib             string
}

// ParseSettings validates env and extracts the typed settings.
// The first missing or malformed key aborts parsing.
func ParseSettings(env *Environment) (Settings, error) {
	var (
		s   Settings
		err error
	)

	lists := []struct {
		key string
		dst *[]string
	}{
		{KeyLibMapnikCXXFlags, &s.LibMapnikCXXFlags},
		{KeyLibMapnikDefines, &s.LibMapnikDefines},
		{KeyLibMapnikLibs, &s.LibMapnikLibs},
	}
	for _, l := range lists {
		if *l.dst, err = env.List(l.key); err != nil {
			return Settings{}, err
		}
	}

	required := []struct {
		key string
		dst *string
	}{
		{KeyMapnikName, &s.MapnikName},
		{KeyMapnikLibName, &s.MapnikLibName},
		{KeyPlatform, &s.Platform},
		{KeyInstallPrefix, &s.InstallPrefix},
	}
	for _, r := range required {
		if *r.dst, err = requireScalar(env, r.key); err != nil {
			return Settings{}, err
		}
	}

	// BOOST_APPEND must be declared but is legitimately empty on most toolchains.
	if s.BoostAppend, err = env.Scalar(KeyBoostAppend); err != nil {
		return Settings{}, err
	}

	link, err := requireScalar(env, KeyRuntimeLink)
	if err != nil {
		return Settings{}, err
	}
	switch LinkMode(link) {
	case LinkStatic, LinkShared:
		s.RuntimeLink = LinkMode(link)
	default:
		return Settings{}, keyError(ErrInvalidLinkMode, KeyRuntimeLink)
	}

	if s.HasCairo, err = env.Bool(KeyHasCairo, false); err != nil {
		return Settings{}, err
	}
	if s.HasCairo || env.Has(KeyCairoCPPPaths) {
		if s.CairoCPPPaths, err = env.List(KeyCairoCPPPaths); err != nil {
			return Settings{}, err
		}
	}

	optional := []struct {
		key string
		def string
		dst *string
	}{
		{KeyCXX, DefaultCXX, &s.CXX},
		{KeyOptionParserLib, DefaultOptionParserLib, &s.OptionParserLib},
		{KeyDLPlatform, DefaultDLPlatform, &s.DLPlatform},
		{KeyDLLib, DefaultDLLib, &s.DLLib},
	}
	for _, o := range optional {
		if *o.dst, err = optionalScalar(env, o.key, o.def); err != nil {
			return Settings{}, err
		}
	}

	return s, nil
}

// NeedsDynamicLoader reports whether static linking on this platform requires
// the dynamic-loading library to be named explicitly.
func (s *Settings) NeedsDynamicLoader() bool {
	return s.RuntimeLink == LinkStatic && s.Platform == s.DLPlatform
}

func requireScalar(env *Environment, key string) (string, error) {
	v, err := env.Scalar(key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", keyError(ErrMalformedConfigKey, key)
	}
	return v, nil
}

func optionalScalar(env *Environment, key, def string) (string, error) {
	if !env.Has(key) {
		return def, nil
	}
	v, err := env.Scalar(key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}
