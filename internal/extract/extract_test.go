package extract

import "testing"

func TestFromSourceDOI(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "bare DOI",
			source: "Chemosphere 180. 10.1016/j.chemosphere.2017.04.029",
			want:   "10.1016/j.chemosphere.2017.04.029",
		},
		{
			name:   "full doi.org URL is stripped to the DOI",
			source: "Springer International Publishing. https://doi.org/10.1007/978-3-030-02083-5",
			want:   "10.1007/978-3-030-02083-5",
		},
		{
			name:   "doi.org without scheme",
			source: "Disponible en doi.org/10.4324/9780203462881",
			want:   "10.4324/9780203462881",
		},
		{
			name:   "uppercase DOI",
			source: "DOI: 10.1016/J.JBUSRES.2019.02.013",
			want:   "10.1016/J.JBUSRES.2019.02.013",
		},
		{
			name:   "no DOI",
			source: "Editorial Nueva Sociedad, Caracas",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromSource(tt.source)
			if got.DOI != tt.want {
				t.Errorf("DOI = %q, want %q", got.DOI, tt.want)
			}
		})
	}
}

func TestFromSourceISBN(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "labelled ISBN-13",
			source: "Fondo de Cultura Económica. ISBN: 978-84-376-0494-7",
			want:   "9788437604947",
		},
		{
			name:   "978 prefix without label, hyphens stripped",
			source: "978-3-030-02083-5",
			want:   "9783030020835",
		},
		{
			name:   "hyphenated ISBN-10",
			source: "Madrid: Cátedra, 84-376-0494-7",
			want:   "8437604947",
		},
		{
			name:   "page ranges and years are not ISBNs",
			source: "Revista Venezolana de Gerencia. Vol.11, No. 33, pp. 49-73 (2006)",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromSource(tt.source)
			if got.ISBN != tt.want {
				t.Errorf("ISBN = %q, want %q", got.ISBN, tt.want)
			}
		})
	}
}

func TestFromSourceISSNAndURL(t *testing.T) {
	got := FromSource("Revista CEPAL, ISSN 0252-0257, www.cepal.org/es/publicaciones")
	if got.ISSN != "0252-0257" {
		t.Errorf("ISSN = %q, want %q", got.ISSN, "0252-0257")
	}
	if got.URL != "https://www.cepal.org/es/publicaciones" {
		t.Errorf("URL = %q, want www form prefixed with https", got.URL)
	}
	if !got.HasAny {
		t.Error("HasAny = false, want true")
	}

	got = FromSource("Disponible en https://www.bnv.gob.ve/catalogo.pdf")
	if got.URL != "https://www.bnv.gob.ve/catalogo.pdf" {
		t.Errorf("URL = %q, scheme form should be kept as is", got.URL)
	}
}

func TestFromSourceIndependence(t *testing.T) {
	source := `Springer. https://doi.org/10.1007/978-3-030-02083-5 ISBN: 978-3-030-02083-5 ISSN 2052-4463`
	got := FromSource(source)

	if got.DOI == "" || got.ISBN == "" || got.ISSN == "" || got.URL == "" {
		t.Errorf("expected all four identifiers, got %+v", got)
	}
}

func TestFromSourceEmpty(t *testing.T) {
	got := FromSource("")
	if got.HasAny {
		t.Errorf("HasAny = true for empty source, got %+v", got)
	}
	got = FromSource("Texto sin identificadores de ningún tipo")
	if got.HasAny {
		t.Errorf("HasAny = true for plain text, got %+v", got)
	}
}
