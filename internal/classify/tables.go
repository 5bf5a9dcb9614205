// internal/classify/tables.go
package classify

// languageByExtension maps a lowercase file extension to a display
// language name. Unknown extensions fall back to "Other".
var languageByExtension = map[string]string{
	// Python and related
	".py": "Python", ".pyx": "Cython", ".pyi": "Python", ".ipynb": "Jupyter",

	// JavaScript/TypeScript ecosystem
	".js": "JavaScript", ".mjs": "JavaScript", ".cjs": "JavaScript",
	".ts": "TypeScript", ".tsx": "TypeScript", ".jsx": "JavaScript",
	".vue": "Vue", ".svelte": "Svelte", ".astro": "Astro",

	// Web technologies
	".html": "HTML", ".htm": "HTML", ".xhtml": "HTML",
	".css": "CSS", ".scss": "SCSS", ".sass": "Sass", ".less": "Less",
	".json": "JSON", ".jsonc": "JSON", ".json5": "JSON",

	// JVM languages
	".java": "Java", ".kt": "Kotlin", ".kts": "Kotlin", ".groovy": "Groovy",
	".scala": "Scala", ".sc": "Scala", ".clj": "Clojure", ".cljs": "ClojureScript",

	// C-family languages
	".c": "C", ".h": "C", ".cpp": "C++", ".cc": "C++", ".cxx": "C++",
	".hpp": "C++", ".hxx": "C++", ".hh": "C++",
	".cs": "C#", ".vb": "Visual Basic", ".fs": "F#", ".fsx": "F#",

	// Mobile development
	".swift": "Swift", ".m": "Objective-C", ".mm": "Objective-C++",
	".dart": "Dart",

	// Other programming languages
	".go": "Go", ".rs": "Rust", ".rb": "Ruby", ".erb": "Ruby",
	".php": "PHP", ".phtml": "PHP",
	".lua": "Lua", ".ex": "Elixir", ".exs": "Elixir",
	".erl": "Erlang", ".hrl": "Erlang",
	".hs": "Haskell", ".lhs": "Haskell",
	".pl": "Perl", ".pm": "Perl",
	".jl": "Julia", ".r": "R", ".rmd": "R Markdown",
	".elm": "Elm", ".ml": "OCaml", ".mli": "OCaml",
	".nim": "Nim", ".zig": "Zig",

	// Shell and scripting
	".sh": "Shell", ".bash": "Bash", ".zsh": "Zsh", ".fish": "Fish",
	".ps1": "PowerShell", ".psm1": "PowerShell", ".psd1": "PowerShell",
	".bat": "Batch", ".cmd": "Batch", ".awk": "AWK",

	// Configuration and data formats
	".yml": "YAML", ".yaml": "YAML", ".toml": "TOML", ".ini": "INI",
	".xml": "XML", ".sql": "SQL", ".graphql": "GraphQL", ".gql": "GraphQL",
	".proto": "Protocol Buffers", ".thrift": "Thrift",

	// Infrastructure and DevOps
	".dockerfile": "Docker", ".tf": "Terraform", ".tfvars": "Terraform",
	".hcl": "HCL", ".bicep": "Bicep",

	// Documentation
	".md": "Markdown", ".mdx": "MDX", ".rst": "reStructuredText",
	".tex": "LaTeX", ".adoc": "AsciiDoc",

	// Other
	".csv": "CSV", ".tsv": "TSV", ".txt": "Text",
}

// languageByFilename categorizes well-known files without a useful
// extension, keyed by exact basename.
var languageByFilename = map[string]string{
	"README":       "Markdown",
	"LICENSE":      "Text",
	"COPYING":      "Text",
	"AUTHORS":      "Text",
	"CHANGELOG":    "Markdown",
	"NOTICE":       "Text",
	"VERSION":      "Text",
	"Dockerfile":   "Docker",
	"Makefile":     "Makefile",
	"Jenkinsfile":  "Jenkinsfile",
	"Vagrantfile":  "Ruby",
	"Gemfile":      "Ruby",
	"Rakefile":     "Ruby",
	"Procfile":     "YAML",
	"go.mod":       "Go",
	"go.sum":       "Go",
	"CODEOWNERS":   "Text",
	".gitignore":   "GitIgnore",
	".gitmodules":  "GitConfig",
	".editorconfig": "INI",
	".npmrc":       "INI",
}

// binaryExtensions lists extensions excluded from LOC and language
// accounting.
var binaryExtensions = map[string]struct{}{
	// Images
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".svg": {},
	".ico": {}, ".webp": {}, ".tiff": {}, ".psd": {}, ".heic": {},

	// Documents
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
	".ppt": {}, ".pptx": {}, ".odt": {}, ".ods": {},

	// Archives
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {}, ".7z": {},
	".rar": {}, ".iso": {}, ".tgz": {}, ".zst": {},

	// Executables and libraries
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".a": {}, ".lib": {},
	".o": {}, ".bin": {}, ".msi": {}, ".dmg": {}, ".deb": {}, ".rpm": {},

	// Compiled code
	".pyc": {}, ".pyd": {}, ".pyo": {}, ".class": {}, ".jar": {}, ".war": {},
	".whl": {}, ".egg": {}, ".apk": {}, ".ipa": {},

	// Data and databases
	".dat": {}, ".db": {}, ".sqlite": {}, ".sqlite3": {}, ".bak": {},

	// Media
	".mp3": {}, ".mp4": {}, ".wav": {}, ".flac": {}, ".ogg": {}, ".m4a": {},
	".avi": {}, ".mov": {}, ".mkv": {}, ".webm": {},

	// Fonts
	".ttf": {}, ".otf": {}, ".woff": {}, ".woff2": {}, ".eot": {},
}

// dependencyFilenames lists basenames that indicate dependency or build
// configuration, keyed lowercase.
var dependencyFilenames = map[string]struct{}{
	// Python
	"requirements.txt": {}, "requirements-dev.txt": {}, "pipfile": {},
	"pipfile.lock": {}, "pyproject.toml": {}, "setup.py": {}, "setup.cfg": {},
	"poetry.lock": {}, "environment.yml": {}, "tox.ini": {},

	// JavaScript/TypeScript
	"package.json": {}, "package-lock.json": {}, "yarn.lock": {},
	"pnpm-lock.yaml": {}, "tsconfig.json": {}, "bower.json": {},
	"webpack.config.js": {}, "vite.config.js": {}, "rollup.config.js": {},

	// Ruby
	"gemfile": {}, "gemfile.lock": {},

	// Go
	"go.mod": {}, "go.sum": {}, "gopkg.toml": {}, "gopkg.lock": {},

	// Rust
	"cargo.toml": {}, "cargo.lock": {},

	// JVM
	"pom.xml": {}, "build.gradle": {}, "build.gradle.kts": {},
	"settings.gradle": {}, "gradle.properties": {}, "build.sbt": {},

	// PHP
	"composer.json": {}, "composer.lock": {},

	// Containers
	"dockerfile": {}, "docker-compose.yml": {}, "docker-compose.yaml": {},

	// Build systems
	"cmakelists.txt": {}, "makefile": {}, "meson.build": {},

	// Linting and environment
	".eslintrc.json": {}, ".prettierrc": {}, ".golangci.yml": {},
	".env.example": {}, ".editorconfig": {},
}

// cicdPathFragments are matched as lowercase substrings anywhere in the
// path, so both directories (.github/workflows) and single files
// (.travis.yml) are caught.
var cicdPathFragments = []string{
	".github/workflows",
	".github/actions",
	".github/dependabot",
	".gitlab-ci",
	".circleci",
	".travis",
	"jenkinsfile",
	"azure-pipelines",
	"appveyor",
	".drone",
	"bitbucket-pipelines",
	"buildkite",
	"cloudbuild",
	".goreleaser",
	"codecov",
}

// testPathPatterns indicate a test file when found as a substring of the
// lowercased path, or as a prefix/suffix of the lowercased basename.
var testPathPatterns = []string{
	"/test/", "/tests/", "/spec/", "/specs/",
	"test_", "_test.", "_spec.", ".test.", ".spec.",
	"test.", "spec.", "tests.", "specs.",
}

// excludedDirectories are skipped entirely during traversal: build
// artifacts, vendored code, caches, VCS metadata.
var excludedDirectories = map[string]struct{}{
	// Build artifacts
	"bin": {}, "obj": {}, "build": {}, "dist": {}, "target": {}, "out": {},
	"debug": {}, "release": {}, "cmake-build-debug": {}, "cmake-build-release": {},

	// Package management
	"node_modules": {}, "bower_components": {}, "jspm_packages": {},
	"vendor": {}, "site-packages": {},
	".venv": {}, "venv": {}, "env": {}, "virtualenv": {},
	".gradle": {}, ".m2": {}, ".cargo": {},

	// IDE and editor
	".vs": {}, ".vscode": {}, ".idea": {}, ".fleet": {},
	"__pycache__": {}, ".ipynb_checkpoints": {},

	// Generated content
	"_site": {}, "coverage": {}, "htmlcov": {}, ".nyc_output": {},

	// Version control
	".git": {}, ".hg": {}, ".svn": {}, ".bzr": {},

	// Temporary
	"tmp": {}, "temp": {}, "cache": {}, ".cache": {},
}
