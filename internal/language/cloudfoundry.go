package language

// CFDefaults describes how a language is pushed to Cloud Foundry.
type CFDefaults struct {
	Buildpack string
	Command   string
	// DefaultMemory applies when the user declares none.
	DefaultMemory string
	// MinMemory, when set, is a floor compared against the declared memory.
	MinMemory string
	// MinMemoryFromOption lets the caller supply the floor (NODE).
	MinMemoryFromOption bool
	// PreserveCommand keeps an existing manifest.yml command.
	PreserveCommand bool
	Env             map[string]string
	CFIgnore        []string
}

// CloudFoundry returns the push defaults for l.
func CloudFoundry(l Language) (CFDefaults, bool) {
	switch l {
	case Node:
		return CFDefaults{
			Buildpack:           "sdk-for-nodejs",
			Command:             "npm start",
			MinMemoryFromOption: true,
			CFIgnore:            []string{".git/", "node_modules/", "test/", "vcap-local.js"},
		}, true
	case Go:
		return CFDefaults{
			Buildpack:     "go_buildpack",
			DefaultMemory: "128M",
			CFIgnore:      []string{".git/", "vendor/"},
		}, true
	case Swift:
		return CFDefaults{
			Buildpack:       "swift_buildpack",
			DefaultMemory:   "128M",
			PreserveCommand: true,
			Env:             map[string]string{"SWIFT_BUILD_DIR_CACHE": "false"},
			CFIgnore:        []string{".build/*", ".build-ubuntu/*", "Packages/*"},
		}, true
	case Java:
		return CFDefaults{
			Buildpack:     "liberty-for-java",
			DefaultMemory: "512M",
			CFIgnore: []string{"/.classpath", "/.project", "/.settings",
				"/src/main/liberty/config/server.env", "target/", "build/"},
		}, true
	case Spring:
		return CFDefaults{
			Buildpack: "java_buildpack",
			MinMemory: "1024M",
			CFIgnore: []string{"/.classpath", "/.project", "/.settings",
				"/src/main/resources/application-local.properties", "target/", "build/"},
		}, true
	case Python:
		return CFDefaults{
			Buildpack:     "python_buildpack",
			Command:       "python manage.py start 0.0.0.0:$PORT",
			DefaultMemory: "128M",
			Env:           map[string]string{"FLASK_APP": "server", "FLASK_DEBUG": "false"},
			CFIgnore:      []string{".pyc", ".egg-info"},
		}, true
	case Django:
		return CFDefaults{
			Buildpack:       "python_buildpack",
			DefaultMemory:   "128M",
			PreserveCommand: true,
			CFIgnore:        []string{".pyc", ".egg-info"},
		}, true
	default:
		return CFDefaults{}, false
	}
}
