package tsconfig

// Target is `compilerOptions.target`.
type Target string

func (Target) EnumValues() []string {
	return []string{
		"es3", "es5", "es6", "es2015", "es2016", "es2017", "es2018", "es2019",
		"es2020", "es2021", "es2022", "es2023", "es2024", "esnext",
	}
}

// Module is `compilerOptions.module`.
type Module string

func (Module) EnumValues() []string {
	return []string{
		"none", "commonjs", "amd", "umd", "system", "es6", "es2015", "es2020",
		"es2022", "esnext", "node16", "node18", "nodenext", "preserve",
	}
}

// ModuleResolution is `compilerOptions.moduleResolution`.
type ModuleResolution string

func (ModuleResolution) EnumValues() []string {
	return []string{"classic", "node", "node10", "node16", "nodenext", "bundler"}
}

// ModuleDetection is `compilerOptions.moduleDetection`.
type ModuleDetection string

func (ModuleDetection) EnumValues() []string { return []string{"auto", "legacy", "force"} }

// JSX is `compilerOptions.jsx`.
type JSX string

func (JSX) EnumValues() []string {
	return []string{"preserve", "react", "react-native", "react-jsx", "react-jsxdev"}
}

// NewLine is `compilerOptions.newLine`.
type NewLine string

func (NewLine) EnumValues() []string { return []string{"crlf", "lf"} }

// Lib is an entry of `compilerOptions.lib`.
type Lib string

func (Lib) EnumValues() []string { return libs }

var libs = []string{
	"es5", "es6", "es7",
	"es2015", "es2015.core", "es2015.collection", "es2015.generator", "es2015.iterable",
	"es2015.promise", "es2015.proxy", "es2015.reflect", "es2015.symbol", "es2015.symbol.wellknown",
	"es2016", "es2016.array.include", "es2016.intl",
	"es2017", "es2017.arraybuffer", "es2017.date", "es2017.intl", "es2017.object",
	"es2017.sharedmemory", "es2017.string", "es2017.typedarrays",
	"es2018", "es2018.asyncgenerator", "es2018.asynciterable", "es2018.intl", "es2018.promise", "es2018.regexp",
	"es2019", "es2019.array", "es2019.intl", "es2019.object", "es2019.string", "es2019.symbol",
	"es2020", "es2020.bigint", "es2020.date", "es2020.intl", "es2020.number", "es2020.promise",
	"es2020.sharedmemory", "es2020.string", "es2020.symbol.wellknown",
	"es2021", "es2021.intl", "es2021.promise", "es2021.string", "es2021.weakref",
	"es2022", "es2022.array", "es2022.error", "es2022.intl", "es2022.object", "es2022.regexp", "es2022.string",
	"es2023", "es2023.array", "es2023.collection", "es2023.intl",
	"es2024", "es2024.arraybuffer", "es2024.collection", "es2024.object", "es2024.promise",
	"es2024.regexp", "es2024.sharedmemory", "es2024.string",
	"esnext", "esnext.array", "esnext.asynciterable", "esnext.bigint", "esnext.collection",
	"esnext.decorators", "esnext.disposable", "esnext.intl", "esnext.iterator", "esnext.object",
	"esnext.promise", "esnext.regexp", "esnext.string", "esnext.symbol", "esnext.weakref",
	"dom", "dom.iterable", "dom.asynciterable",
	"webworker", "webworker.importscripts", "webworker.iterable", "webworker.asynciterable",
	"scripthost", "decorators", "decorators.legacy",
}
