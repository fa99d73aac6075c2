package codegen

// GenericHeader returns the template declaration for an overload of arity n,
// terminated by a newline. A zero-argument overload is a plain function and
// gets no header at all: "template<>" would declare a specialization.
func GenericHeader(n int, naming Naming) string {
	if n <= 0 {
		return ""
	}
	return "template<" + ParamList(n, NamingScheme{Prefix: "typename " + naming.TypePrefix}) + ">\n"
}
