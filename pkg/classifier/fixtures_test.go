package classifier

import "newsclassifier/internal/models"

var (
	enArticle = models.ArticleRequest{
		Source:      "BBC Technology",
		URL:         "http://news.bbc.co.uk/go/click/rss/0.91/public/-/2/hi/business/4144939.stm",
		Title:       "System gremlins resolved at HSBC",
		Description: "Computer glitches which led to chaos for HSBC customers on Monday are fixed, the High Street bank confirms.",
	}

	esArticle = models.ArticleRequest{
		Source:      "BBC Technology",
		URL:         "http://news.bbc.co.uk/go/click/rss/0.91/public/-/2/hi/business/4144939.stm",
		Title:       "System gremlins resolved at HSBC",
		Description: "Los fallos informáticos que provocaron el caos para los clientes de HSBC el lunes se han solucionado, confirma el banco High Street.",
	}

	nonASCIIArticle = models.ArticleRequest{
		Source:      "BBC Technology",
		URL:         "http://news.bbc.co.uk/go/click/rss/0.91/public/-/2/hi/business/4144939.stm",
		Title:       "System gremlins resolved at HSBC",
		Description: "日本人 中國的 ~=[]()%+{}@;’#!$_&- éè ;∞¥₤€",
	}
)
