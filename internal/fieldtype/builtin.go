package fieldtype

// Default is the catalogue of Django's built-in model fields.
var Default = builtin()

// commonOptions are accepted by every field constructor.
var commonOptions = []Option{
	{Name: "null", Kind: KindBool, Default: false},
	{Name: "blank", Kind: KindBool, Default: false},
	{Name: "unique", Kind: KindBool, Default: false},
	{Name: "db_index", Kind: KindBool, Default: false},
	{Name: "editable", Kind: KindBool, Default: true},
	{Name: "verbose_name", Kind: KindString, Default: ""},
	{Name: "help_text", Kind: KindString, Default: ""},
	{Name: "db_column", Kind: KindString, Default: ""},
}

func builtin() *Catalog {
	c := NewCatalog()

	autoOpts := []Option{{Name: "primary_key", Kind: KindBool, Default: true}}
	dateOpts := []Option{
		{Name: "auto_now", Kind: KindBool, Default: false},
		{Name: "auto_now_add", Kind: KindBool, Default: false},
	}
	fileOpts := []Option{
		{Name: "upload_to", Kind: KindString, Default: ""},
		{Name: "max_length", Kind: KindInt, Default: 100},
	}
	relOpts := func(onDelete bool) []Option {
		opts := []Option{{Name: "to", Kind: KindString, Required: true}}
		if onDelete {
			opts = append(opts, Option{Name: "on_delete", Kind: KindSymbol, Default: "models.CASCADE"})
		}
		return append(opts,
			Option{Name: "related_name", Kind: KindString, Default: ""},
			Option{Name: "related_query_name", Kind: KindString, Default: ""},
		)
	}

	for _, ft := range []*FieldType{
		{Name: "AutoField", DartType: "int", Options: autoOpts},
		{Name: "BigAutoField", DartType: "int", Options: autoOpts},
		{Name: "BigIntegerField", DartType: "int"},
		{Name: "BinaryField", DartType: "List<int>", Options: []Option{
			{Name: "max_length", Kind: KindInt},
		}},
		{Name: "BooleanField", DartType: "bool", Options: []Option{
			{Name: "default", Kind: KindBool, Default: false},
		}},
		{Name: "CharField", DartType: "String", Options: []Option{
			{Name: "max_length", Kind: KindInt, Required: true},
		}},
		{Name: "DateField", DartType: "DateTime", Options: dateOpts},
		{Name: "DateTimeField", DartType: "DateTime", Options: dateOpts},
		{Name: "DecimalField", DartType: "double", Options: []Option{
			{Name: "max_digits", Kind: KindInt, Required: true},
			{Name: "decimal_places", Kind: KindInt, Required: true},
		}},
		{Name: "DurationField", DartType: "Duration"},
		{Name: "EmailField", DartType: "String", Options: []Option{
			{Name: "max_length", Kind: KindInt, Default: 254},
		}},
		{Name: "FileField", DartType: "String", Options: fileOpts},
		{Name: "FilePathField", DartType: "String", Options: []Option{
			{Name: "path", Kind: KindString, Default: ""},
			{Name: "match", Kind: KindString, Default: ""},
			{Name: "recursive", Kind: KindBool, Default: false},
			{Name: "allow_files", Kind: KindBool, Default: true},
			{Name: "allow_folders", Kind: KindBool, Default: false},
			{Name: "max_length", Kind: KindInt, Default: 100},
		}},
		{Name: "FloatField", DartType: "double"},
		{Name: "GenericIPAddressField", DartType: "String", Options: []Option{
			{Name: "protocol", Kind: KindString, Default: "both"},
			{Name: "unpack_ipv4", Kind: KindBool, Default: false},
		}},
		{Name: "ImageField", DartType: "String", Options: fileOpts},
		{Name: "IntegerField", DartType: "int"},
		{Name: "JSONField", DartType: "Map<String, dynamic>"},
		{Name: "PositiveBigIntegerField", DartType: "int"},
		{Name: "PositiveIntegerField", DartType: "int"},
		{Name: "PositiveSmallIntegerField", DartType: "int"},
		{Name: "SlugField", DartType: "String", Options: []Option{
			{Name: "max_length", Kind: KindInt, Default: 50},
			{Name: "allow_unicode", Kind: KindBool, Default: false},
		}},
		{Name: "SmallAutoField", DartType: "int", Options: autoOpts},
		{Name: "SmallIntegerField", DartType: "int"},
		{Name: "TextField", DartType: "String"},
		{Name: "TimeField", DartType: "String", Options: dateOpts},
		{Name: "URLField", DartType: "String", Options: []Option{
			{Name: "max_length", Kind: KindInt, Default: 200},
		}},
		{Name: "UUIDField", DartType: "String"},
		{Name: "ForeignKey", Relational: true, Options: relOpts(true)},
		{Name: "OneToOneField", Relational: true, Options: relOpts(true)},
		{Name: "ManyToManyField", Relational: true, Many: true, Options: relOpts(false)},
	} {
		c.Register(ft)
	}
	return c
}
