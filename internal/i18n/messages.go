package i18n

var messagesES = map[string]string{
	"success": "ok",

	"error.bad_request":            "Solicitud inválida",
	"error.unauthorized":           "No has iniciado sesión",
	"error.forbidden":              "No tienes permiso para realizar esta acción",
	"error.not_found":              "Recurso no encontrado",
	"error.internal":               "Error interno, inténtalo más tarde",
	"error.storage":                "No pudimos guardar los cambios, inténtalo de nuevo",
	"error.rate_limited":           "Demasiados intentos, espera un momento",
	"error.login_too_many":         "Demasiados intentos de inicio de sesión, espera %d segundos",
	"error.rate_limit_unavailable": "Servicio de límite de frecuencia no disponible",
	"error.user_id_invalid":        "Identificador de usuario inválido",
	"error.user_id_type":           "Tipo de identificador de usuario inválido",
	"error.auth_header_missing":    "Falta el encabezado de autorización",
	"error.auth_header_invalid":    "Formato de autorización inválido",
	"error.token_invalid":          "La sesión no es válida",
	"error.token_expired":          "La sesión expiró, vuelve a iniciar sesión",
	"error.token_revoked":          "La sesión fue cerrada, vuelve a iniciar sesión",
	"error.jwt_secret_missing":     "Autenticación no configurada",

	"error.email_invalid":            "Correo electrónico inválido",
	"error.email_exists":             "Ese correo ya está registrado",
	"error.invalid_credentials":      "Correo o contraseña incorrectos",
	"error.user_disabled":            "La cuenta está deshabilitada",
	"error.role_invalid":             "Rol inválido, elige cliente o vendedor",
	"error.store_name_required":      "El nombre de la tienda es obligatorio",
	"error.store_not_found":          "Aún no tienes una tienda",
	"error.not_seller":               "Solo los vendedores tienen tienda",
	"error.password_weak":            "La contraseña no cumple los requisitos",
	"error.password_min_length":      "La contraseña debe tener al menos %d caracteres",
	"error.password_max_length":      "La contraseña no puede superar %d bytes",
	"error.password_require_upper":   "La contraseña debe incluir una mayúscula",
	"error.password_require_lower":   "La contraseña debe incluir una minúscula",
	"error.password_require_number":  "La contraseña debe incluir un número",
	"error.password_require_special": "La contraseña debe incluir un carácter especial",

	"error.product_not_found":     "Producto no encontrado",
	"error.product_not_available": "El producto no está disponible",
	"error.product_id_invalid":    "Identificador de producto inválido",
	"error.out_of_stock":          "Producto agotado",
	"error.stock_exceeded":        "No hay suficiente inventario",
	"error.quantity_invalid":      "La cantidad debe ser al menos 1",
	"error.cart_not_found":        "Carrito no encontrado",
	"error.cart_item_not_found":   "El artículo no está en tu carrito",
	"error.cart_item_id_invalid":  "Identificador de artículo inválido",
	"error.cart_busy":             "Tu carrito se está actualizando, inténtalo de nuevo",

	"nav.profile":          "Mi perfil",
	"nav.seller_dashboard": "Mi tienda",
	"nav.admin_dashboard":  "Panel de administración",
	"nav.orders":           "Mis pedidos",
	"nav.cart":             "Carrito",
}

var messagesEN = map[string]string{
	"success": "ok",

	"error.bad_request":            "Invalid request",
	"error.unauthorized":           "You are not signed in",
	"error.forbidden":              "You are not allowed to do this",
	"error.not_found":              "Resource not found",
	"error.internal":               "Internal error, please try again later",
	"error.storage":                "We could not save your changes, please try again",
	"error.rate_limited":           "Too many attempts, please wait a moment",
	"error.login_too_many":         "Too many sign-in attempts, wait %d seconds",
	"error.rate_limit_unavailable": "Rate limit service unavailable",
	"error.user_id_invalid":        "Invalid user id",
	"error.user_id_type":           "Invalid user id type",
	"error.auth_header_missing":    "Authorization header is missing",
	"error.auth_header_invalid":    "Invalid authorization header",
	"error.token_invalid":          "Invalid session",
	"error.token_expired":          "Session expired, please sign in again",
	"error.token_revoked":          "Session was signed out, please sign in again",
	"error.jwt_secret_missing":     "Authentication is not configured",

	"error.email_invalid":            "Invalid email address",
	"error.email_exists":             "Email is already registered",
	"error.invalid_credentials":      "Wrong email or password",
	"error.user_disabled":            "Account is disabled",
	"error.role_invalid":             "Invalid role, choose customer or seller",
	"error.store_name_required":      "Store name is required",
	"error.store_not_found":          "You do not have a store yet",
	"error.not_seller":               "Only sellers have a store",
	"error.password_weak":            "Password does not meet the requirements",
	"error.password_min_length":      "Password must be at least %d characters",
	"error.password_max_length":      "Password cannot exceed %d bytes",
	"error.password_require_upper":   "Password must include an uppercase letter",
	"error.password_require_lower":   "Password must include a lowercase letter",
	"error.password_require_number":  "Password must include a number",
	"error.password_require_special": "Password must include a special character",

	"error.product_not_found":     "Product not found",
	"error.product_not_available": "Product is not available",
	"error.product_id_invalid":    "Invalid product id",
	"error.out_of_stock":          "Out of stock",
	"error.stock_exceeded":        "Not enough stock",
	"error.quantity_invalid":      "Quantity must be at least 1",
	"error.cart_not_found":        "Cart not found",
	"error.cart_item_not_found":   "Item is not in your cart",
	"error.cart_item_id_invalid":  "Invalid cart item id",
	"error.cart_busy":             "Your cart is being updated, please retry",

	"nav.profile":          "My profile",
	"nav.seller_dashboard": "My store",
	"nav.admin_dashboard":  "Admin panel",
	"nav.orders":           "My orders",
	"nav.cart":             "Cart",
}
