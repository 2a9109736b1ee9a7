package travelapi

import "net/http"

// consentCookie pre-accepts the regional consent interstitial; without it
// the explore page serves a consent wall with no fare data.
const consentCookie = "CONSENT=YES+US.en+V14+BX; SOCS=CAISHAgBEhJnd3NfMjAyNDExMTktMF9SQzIaAmVuIAEaBgiA3rW4Bg"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// setBrowserHeaders makes the request indistinguishable from a desktop
// browser navigation. The remote serves a stripped page to anything that
// does not look like one.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Cache-Control", "max-age=0")
	req.Header.Set("Cookie", consentCookie)
	req.Header.Set("Referer", "https://www.google.com/")
}
