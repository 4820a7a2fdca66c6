package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comparador/internal/model"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type memCache struct {
	data   map[string][]byte
	getErr error
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, url string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.data[url]
	return b, ok, nil
}

func (c *memCache) Set(_ context.Context, url string, body []byte) error {
	c.data[url] = body
	return nil
}

var _ Cache = (*memCache)(nil)

// ── Headers ───────────────────────────────────────────────────────────────────

func TestFoldHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Preço", "preco"},
		{" PREÇO ", "preco"},
		{"\ufefftítulo", "titulo"},
		{"Taxa %", "taxa"},
		{"Shipping Cost", "shipping_cost"},
		{"fee-percent", "fee_percent"},
		{"Comissão", "comissao"},
		{"Categoría", "categoria"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, foldHeader(tt.in), "foldHeader(%q)", tt.in)
	}
}

func TestMapHeaders(t *testing.T) {
	m := MapHeaders([]string{"Nome", "Preço", "Frete", "Link", "Marca", "Loja"})
	rec := m.Record([]string{" Fone JBL ", "199,90", "10", "http://x", "JBL", "magalu"}, "feed.csv")

	assert.Equal(t, model.RawRecord{
		Title:    "Fone JBL",
		Brand:    "JBL",
		Price:    "199,90",
		Shipping: "10",
		URL:      "http://x",
		Platform: "magalu",
		Source:   "feed.csv",
	}, rec)
}

func TestMapHeadersPreference(t *testing.T) {
	// "title" vem antes de "produto" na lista de apelidos
	m := MapHeaders([]string{"produto", "title"})
	rec := m.Record([]string{"a", "b"}, "")
	assert.Equal(t, "b", rec.Title)
}

func TestMapHeadersShortRow(t *testing.T) {
	m := MapHeaders([]string{"title", "price", "url"})
	rec := m.Record([]string{"só título"}, "")
	assert.Equal(t, "só título", rec.Title)
	assert.Empty(t, rec.Price)
	assert.Empty(t, rec.URL)
}

// ── CSV ───────────────────────────────────────────────────────────────────────

func TestReadCSVComma(t *testing.T) {
	data := "title,brand,model,price,currency,shipping,fee_percent,url,image,category,platform\n" +
		"\"Sony A12, preto\",Sony,A12,200,BRL,10,5,http://a,http://img,Audio,amazon\n" +
		"\n" +
		"Outro,,,abc,,,,,,,\n"

	records, err := ReadCSV(strings.NewReader(data), "a.csv")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Sony A12, preto", records[0].Title)
	assert.Equal(t, "200", records[0].Price)
	assert.Equal(t, "5", records[0].FeePercent)
	assert.Equal(t, "amazon", records[0].Platform)
	assert.Equal(t, "a.csv", records[0].Source)
	assert.Equal(t, "abc", records[1].Price)
}

func TestReadCSVSemicolon(t *testing.T) {
	data := "\ufeffTítulo;Preço;Moeda;Plataforma\nCâmera X-100;99,5;usd;ebay\n"

	records, err := ReadCSV(strings.NewReader(data), "b.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Câmera X-100", records[0].Title)
	assert.Equal(t, "99,5", records[0].Price)
	assert.Equal(t, "usd", records[0].Currency)
	assert.Equal(t, "ebay", records[0].Platform)
}

func TestReadCSVEmpty(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""), "vazio.csv")
	require.NoError(t, err)
	assert.Empty(t, records)
}

// ── HTML ──────────────────────────────────────────────────────────────────────

const htmlFeed = `<html><body>
<table>
  <thead><tr><th>Produto</th><th>Preço</th><th>Link</th><th>Imagem</th></tr></thead>
  <tbody>
    <tr><td>Fone JBL Tune 510BT</td><td>199.90</td><td><a href="http://loja/fone"></a></td><td><img src="http://img/fone.jpg"></td></tr>
    <tr><td>Caixa de Som</td><td>89</td><td>http://loja/caixa</td><td></td></tr>
  </tbody>
</table>
<table><tr><th>ignorada</th></tr></table>
</body></html>`

func TestParseHTMLTable(t *testing.T) {
	records, err := ParseHTMLTable(htmlFeed, "loja.html")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Fone JBL Tune 510BT", records[0].Title)
	assert.Equal(t, "199.90", records[0].Price)
	assert.Equal(t, "http://loja/fone", records[0].URL)
	assert.Equal(t, "http://img/fone.jpg", records[0].Image)
	assert.Equal(t, "http://loja/caixa", records[1].URL)
	assert.Empty(t, records[1].Image)
}

func TestParseHTMLTableMissing(t *testing.T) {
	_, err := ParseHTMLTable("<html><body><p>nada</p></body></html>", "x.html")
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestParseDetectsFormat(t *testing.T) {
	records, err := Parse([]byte(htmlFeed), "https://feeds/x?fmt=1", "x")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = Parse([]byte("title,price\na,1\n"), "feed.csv", "feed.csv")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// ── Loader ────────────────────────────────────────────────────────────────────

func TestLoaderLocalAndRemote(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/feed.csv":
			w.Write([]byte("title,price\nRemoto,10\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	local := filepath.Join(dir, "local.csv")
	require.NoError(t, os.WriteFile(local, []byte("titulo;preco\nLocal;5\n"), 0o644))

	cache := newMemCache()
	l := &Loader{Fetcher: &Fetcher{Client: srv.Client()}, Cache: cache}

	sources := []string{
		local,
		srv.URL + "/feed.csv",
		srv.URL + "/missing.csv",
		filepath.Join(dir, "nao-existe.csv"),
	}
	records := l.Load(context.Background(), sources)

	require.Len(t, records, 2)
	assert.Equal(t, "Local", records[0].Title)
	assert.Equal(t, "local.csv", records[0].Source)
	assert.Equal(t, "Remoto", records[1].Title)
	assert.Equal(t, srv.URL+"/feed.csv", records[1].Source)
	assert.Contains(t, cache.data, srv.URL+"/feed.csv")

	// segunda carga vem do cache
	before := hits.Load()
	records = l.Load(context.Background(), []string{srv.URL + "/feed.csv"})
	require.Len(t, records, 1)
	assert.Equal(t, before, hits.Load())
}

func TestLoaderCacheErrorFallsBackToFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("title,price\nX,1\n"))
	}))
	defer srv.Close()

	cache := newMemCache()
	cache.getErr = errors.New("redis fora")
	l := &Loader{Fetcher: &Fetcher{Client: srv.Client()}, Cache: cache}

	records := l.Load(context.Background(), []string{srv.URL + "/a.csv"})
	assert.Len(t, records, 1)
}

func TestLoaderNoSources(t *testing.T) {
	l := NewLoader(nil)
	assert.Empty(t, l.Load(context.Background(), nil))
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := (&Fetcher{Client: srv.Client()}).Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "feed status 500")
}

func TestCacheKey(t *testing.T) {
	k := CacheKey("https://example.com/feed.csv")
	assert.True(t, strings.HasPrefix(k, "feed:"))
	assert.Len(t, k, len("feed:")+64)
	assert.Equal(t, k, CacheKey("https://example.com/feed.csv"))
}
