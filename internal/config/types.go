package config

// Config is the top-level structure parsed from rigup YAML.
type Config struct {
	Provision Provision `yaml:"provision"`
}

// Provision defines everything the orchestrator needs to take a bare image
// to a running service: host paths, package lists, the accelerator SDK
// repository, the systemd unit, and preflight thresholds.
type Provision struct {
	// AppDir is the application checkout on the device. Defaults to ~/rigup.
	AppDir string `yaml:"app_dir"`
	// EnvDir is the virtualenv root. Defaults to <app_dir>/.venv.
	EnvDir string `yaml:"env_dir"`
	// Interpreter is the system Python used to build the venv.
	Interpreter string `yaml:"interpreter"`

	Preflight Preflight `yaml:"preflight"`
	Packages  Packages  `yaml:"packages"`
	SDK       SDKRepo   `yaml:"sdk"`
	Service   Service   `yaml:"service"`
	Artifacts Artifacts `yaml:"artifacts"`
}

// Preflight holds pre-mutation validation settings.
type Preflight struct {
	// MinFreeGiB is the soft disk-space threshold. Shortfall prompts the
	// operator instead of aborting.
	MinFreeGiB int `yaml:"min_free_gib"`
	// ProbeAddr is the host:port dialed once to confirm network reachability.
	ProbeAddr string `yaml:"probe_addr"`
	// ProbeTimeout is a Go duration string, default 5s.
	ProbeTimeout string `yaml:"probe_timeout"`
}

// Packages lists OS-level and Python-level dependencies installed in order.
type Packages struct {
	Apt          []string `yaml:"apt"`
	Requirements string   `yaml:"requirements"`
	// EditableInstall installs the application itself into the venv with
	// pip install -e <app_dir>.
	EditableInstall bool `yaml:"editable_install"`
}

// SDKRepo describes the accelerator SDK repository and its nested installer.
type SDKRepo struct {
	URL string `yaml:"url"`
	// Dir is where the repo is cloned. Defaults to <app_dir>/sdk.
	Dir string `yaml:"dir"`
	// InstallScript is invoked inside Dir after the clone.
	InstallScript  string `yaml:"install_script"`
	TargetPlatform string `yaml:"target_platform"`
	// SkipRuntime passes the installer's flag for the runtime component
	// already satisfied by the apt package set.
	SkipRuntime bool `yaml:"skip_runtime"`
}

// Service describes the systemd unit the registrar installs.
type Service struct {
	Name string `yaml:"name"`
	// StartCommand is the unit's ExecStart. Defaults to the venv python
	// running the application's main module.
	StartCommand string `yaml:"start_command"`
	RestartSec   int    `yaml:"restart_sec"`
}

// Artifacts describes the generated launcher and desktop entries.
type Artifacts struct {
	// AcceleratorLibDir is appended to LD_LIBRARY_PATH by the launcher.
	AcceleratorLibDir string `yaml:"accelerator_lib_dir"`
	// PluginDir is appended to GST_PLUGIN_PATH by the launcher.
	PluginDir string `yaml:"plugin_dir"`
	// SessionDelaySec is how long the launcher sleeps for the desktop
	// session to finish starting.
	SessionDelaySec int `yaml:"session_delay_sec"`
	Terminal        string `yaml:"terminal"`
}
